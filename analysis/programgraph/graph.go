// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package programgraph

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ProgramGraph is a directed multigraph over Nodes. Self-loops and parallel edges are allowed, edges carry no
// weight. The graph is built once and then only read by the analyses.
type ProgramGraph struct {
	nodes NodeSet

	// succ[x][y] is the multiplicity of the edge x -> y
	succ map[ID]map[ID]int

	// pred[y][x] is the multiplicity of the edge x -> y
	pred map[ID]map[ID]int

	numEdges int
}

// Edge is a directed edge of a ProgramGraph with its multiplicity
type Edge struct {
	From  *Node
	To    *Node
	Count int
}

// New returns an empty graph
func New() *ProgramGraph {
	return &ProgramGraph{
		nodes: NodeSet{},
		succ:  map[ID]map[ID]int{},
		pred:  map[ID]map[ID]int{},
	}
}

// AddNode adds a node to the graph. Adding a node already in the graph is a no-op.
func (g *ProgramGraph) AddNode(n *Node) {
	if n == nil || g.nodes.Contains(n) {
		return
	}
	g.nodes.Add(n)
	g.succ[n.id] = map[ID]int{}
	g.pred[n.id] = map[ID]int{}
}

// AddEdge adds a directed edge from src to dst. The endpoints are added to the graph if necessary.
// Adding an edge that already exists increases its multiplicity.
func (g *ProgramGraph) AddEdge(src *Node, dst *Node) {
	g.AddNode(src)
	g.AddNode(dst)
	g.succ[src.id][dst.id]++
	g.pred[dst.id][src.id]++
	g.numEdges++
}

// Contains returns true if the graph has a node with the identity of n
func (g *ProgramGraph) Contains(n *Node) bool {
	return g.nodes.Contains(n)
}

// Node returns the node with identity id, or nil if there is none
func (g *ProgramGraph) Node(id ID) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes in the graph
func (g *ProgramGraph) Len() int {
	return len(g.nodes)
}

// NumEdges returns the number of edges in the graph, counting multiplicities
func (g *ProgramGraph) NumEdges() int {
	return g.numEdges
}

// Multiplicity returns the number of edges from src to dst
func (g *ProgramGraph) Multiplicity(src *Node, dst *Node) int {
	if src == nil || dst == nil {
		return 0
	}
	return g.succ[src.id][dst.id]
}

// HasEdge returns true if there is at least one edge from src to dst
func (g *ProgramGraph) HasEdge(src *Node, dst *Node) bool {
	return g.Multiplicity(src, dst) > 0
}

// Nodes returns the nodes of the graph in increasing identity order
func (g *ProgramGraph) Nodes() []*Node {
	return g.nodes.Sorted()
}

// NodeSet returns a copy of the vertex set
func (g *ProgramGraph) NodeSet() NodeSet {
	return g.nodes.Clone()
}

// Predecessors returns the set of nodes with an edge to n. The set is empty when n is not in the graph.
func (g *ProgramGraph) Predecessors(n *Node) NodeSet {
	return g.adjacent(g.pred, n)
}

// Successors returns the set of nodes with an edge from n. The set is empty when n is not in the graph.
func (g *ProgramGraph) Successors(n *Node) NodeSet {
	return g.adjacent(g.succ, n)
}

// SortedPredecessors returns the predecessors of n in increasing identity order
func (g *ProgramGraph) SortedPredecessors(n *Node) []*Node {
	return g.sortedAdjacent(g.pred, n)
}

// SortedSuccessors returns the successors of n in increasing identity order
func (g *ProgramGraph) SortedSuccessors(n *Node) []*Node {
	return g.sortedAdjacent(g.succ, n)
}

func (g *ProgramGraph) adjacent(adj map[ID]map[ID]int, n *Node) NodeSet {
	s := NodeSet{}
	if n == nil {
		return s
	}
	for id := range adj[n.id] {
		s[id] = g.nodes[id]
	}
	return s
}

func (g *ProgramGraph) sortedAdjacent(adj map[ID]map[ID]int, n *Node) []*Node {
	if n == nil {
		return nil
	}
	ids := maps.Keys(adj[n.id])
	slices.Sort(ids)
	res := make([]*Node, len(ids))
	for i, id := range ids {
		res[i] = g.nodes[id]
	}
	return res
}

// Edges returns all the edges of the graph, ordered by source then destination identity
func (g *ProgramGraph) Edges() []Edge {
	var edges []Edge
	for _, src := range g.Nodes() {
		for _, dst := range g.SortedSuccessors(src) {
			edges = append(edges, Edge{From: src, To: dst, Count: g.succ[src.id][dst.id]})
		}
	}
	return edges
}

// Entry returns the unique node without incoming edges. It returns an error wrapping ErrGraphInvariant if there
// is no such node, or more than one.
func (g *ProgramGraph) Entry() (*Node, error) {
	return g.unique("entry", g.pred)
}

// Exit returns the unique node without outgoing edges. It returns an error wrapping ErrGraphInvariant if there
// is no such node, or more than one.
func (g *ProgramGraph) Exit() (*Node, error) {
	return g.unique("exit", g.succ)
}

func (g *ProgramGraph) unique(what string, adj map[ID]map[ID]int) (*Node, error) {
	var found []*Node
	for _, n := range g.Nodes() {
		if len(adj[n.id]) == 0 {
			found = append(found, n)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one %s node, found %d", ErrGraphInvariant, what, len(found))
	}
	return found[0], nil
}

// TransitiveSuccessors returns all the nodes reachable from n through one or more edges. n is in the result iff
// n is on a cycle.
func (g *ProgramGraph) TransitiveSuccessors(n *Node) NodeSet {
	visited := NodeSet{}
	if !g.Contains(n) {
		return visited
	}
	stack := g.SortedSuccessors(n)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(cur) {
			continue
		}
		visited.Add(cur)
		for id := range g.succ[cur.id] {
			if _, seen := visited[id]; !seen {
				stack = append(stack, g.nodes[id])
			}
		}
	}
	return visited
}

// ReachesAll returns true if every node in targets is either start or a transitive successor of start
func (g *ProgramGraph) ReachesAll(start *Node, targets ...*Node) bool {
	closure := g.TransitiveSuccessors(start)
	closure.Add(start)
	for _, t := range targets {
		if !closure.Contains(t) {
			return false
		}
	}
	return true
}

// SuccessorsUntilMarker returns the nodes reached by a breadth-first expansion from the immediate successors of
// n that does not enter nodes for which isMarker returns true. Marker nodes are not in the result. The result
// is in breadth-first order, successors being visited in increasing identity order.
func (g *ProgramGraph) SuccessorsUntilMarker(n *Node, isMarker func(*Node) bool) []*Node {
	var result []*Node
	seen := NodeSet{}
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, succ := range g.SortedSuccessors(cur) {
			if seen.Contains(succ) || isMarker(succ) {
				continue
			}
			seen.Add(succ)
			result = append(result, succ)
			queue = append(queue, succ)
		}
	}
	return result
}

// Parent returns the unique predecessor of n. This is meaningful in trees. The error wraps ErrUnresolvedAncestor
// if n has no predecessor or more than one.
func (g *ProgramGraph) Parent(n *Node) (*Node, error) {
	preds := g.pred[n.id]
	switch len(preds) {
	case 1:
		for id := range preds {
			return g.nodes[id], nil
		}
	case 0:
		return nil, fmt.Errorf("%w: %s has no parent", ErrUnresolvedAncestor, n)
	}
	return nil, fmt.Errorf("%w: %s has %d predecessors, graph is not a tree", ErrUnresolvedAncestor, n,
		len(preds))
}

// LeastCommonAncestor returns the closest node that has both a and b in its subtree (a node is in its own
// subtree). The graph must be a tree: the search walks up from a through unique predecessors, and fails with
// ErrUnresolvedAncestor if some node on the way has several predecessors or if the root is reached without
// finding a common ancestor.
func (g *ProgramGraph) LeastCommonAncestor(a *Node, b *Node) (*Node, error) {
	if !g.Contains(a) || !g.Contains(b) {
		return nil, fmt.Errorf("%w: %s or %s is not in the tree", ErrUnresolvedAncestor, a, b)
	}
	cur := a
	for steps := 0; steps <= g.Len(); steps++ {
		if g.ReachesAll(cur, a, b) {
			return cur, nil
		}
		parent, err := g.Parent(cur)
		if err != nil {
			return nil, fmt.Errorf("no common ancestor for %s and %s: %w", a, b, err)
		}
		cur = parent
	}
	return nil, fmt.Errorf("%w: cycle above %s", ErrUnresolvedAncestor, a)
}

// String returns a representation of the graph in the GraphViz dot format
func (g *ProgramGraph) String() string {
	var b strings.Builder
	b.WriteString("digraph cfg{\n")
	for _, e := range g.Edges() {
		for i := 0; i < e.Count; i++ {
			b.WriteString(e.From.String() + "->" + e.To.String() + "\n")
		}
	}
	b.WriteString("}")
	return b.String()
}
