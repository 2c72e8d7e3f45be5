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

package postdom

import (
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// DefaultBoundFactor is the factor used to bound fixed-point iterations when none is specified.
const DefaultBoundFactor = 4

// Dominance maps every node of a control-flow graph to its set of post-dominators.
// The sets returned by Of are copies; callers may modify them freely.
type Dominance struct {
	root       *programgraph.Node
	sets       map[programgraph.ID]programgraph.NodeSet
	reaching   programgraph.NodeSet // nodes that have a path to the root
	iterations int
}

// Root returns the root of the dominance computation, i.e. the exit of the control-flow graph
func (d Dominance) Root() *programgraph.Node {
	return d.root
}

// Of returns the post-dominators of n, including n itself. The result is empty if n is not a node of the
// graph the dominance was computed on.
func (d Dominance) Of(n *programgraph.Node) programgraph.NodeSet {
	if n == nil {
		return programgraph.NewNodeSet()
	}
	if s, ok := d.sets[n.ID()]; ok {
		return s.Clone()
	}
	return programgraph.NewNodeSet()
}

// Dominates returns true if m post-dominates n
func (d Dominance) Dominates(m *programgraph.Node, n *programgraph.Node) bool {
	if n == nil {
		return false
	}
	s, ok := d.sets[n.ID()]
	return ok && s.Contains(m)
}

// ReachesRoot returns true if n has a path to the root. The post-dominators of nodes that do not reach the root
// are vacuously all the nodes of the graph.
func (d Dominance) ReachesRoot(n *programgraph.Node) bool {
	return d.reaching.Contains(n)
}

// Iterations returns the number of passes the fixed point needed to stabilize
func (d Dominance) Iterations() int {
	return d.iterations
}

// Equal returns true when both dominance maps have the same root and the same sets
func (d Dominance) Equal(other Dominance) bool {
	if d.root.ID() != other.root.ID() || len(d.sets) != len(other.sets) {
		return false
	}
	for id, s := range d.sets {
		o, ok := other.sets[id]
		if !ok || !s.Equal(o) {
			return false
		}
	}
	return true
}

// ComputeDominance computes the post-dominator sets of every node of cfg. The graph must have a unique exit.
func ComputeDominance(cfg *programgraph.ProgramGraph) (Dominance, error) {
	return computeDominance(cfg, DefaultBoundFactor)
}

func computeDominance(cfg *programgraph.ProgramGraph, boundFactor int) (Dominance, error) {
	if boundFactor <= 0 {
		boundFactor = DefaultBoundFactor
	}
	reversed := programgraph.Reverse(cfg)
	root, err := reversed.Entry()
	if err != nil {
		return Dominance{}, fmt.Errorf("reversed control-flow graph has no root: %w", err)
	}
	nodes := reversed.Nodes()
	all := reversed.NodeSet()
	sets := make(map[programgraph.ID]programgraph.NodeSet, len(nodes))
	for _, n := range nodes {
		if n.ID() == root.ID() {
			sets[n.ID()] = programgraph.NewNodeSet(n)
		} else {
			sets[n.ID()] = all.Clone()
		}
	}

	bound := programgraph.FixpointBound(len(nodes), boundFactor)
	iterations := 0
	for changed := true; changed; {
		changed = false
		iterations++
		if iterations > bound {
			return Dominance{}, fmt.Errorf("post-dominance did not stabilize after %d passes: %w",
				bound, programgraph.ErrGraphInvariant)
		}
		for _, n := range nodes {
			if n.ID() == root.ID() {
				continue
			}
			var meet programgraph.NodeSet
			for _, p := range reversed.SortedPredecessors(n) {
				if meet == nil {
					meet = sets[p.ID()].Clone()
				} else {
					meet.Intersect(sets[p.ID()])
				}
			}
			if meet == nil {
				meet = programgraph.NewNodeSet()
			}
			meet.Add(n)
			if !meet.Equal(sets[n.ID()]) {
				sets[n.ID()] = meet
				changed = true
			}
		}
	}
	reaching := reversed.TransitiveSuccessors(root)
	reaching.Add(root)
	return Dominance{root: root, sets: sets, reaching: reaching, iterations: iterations}, nil
}

// ComputeTree computes the post-dominator tree of cfg: an edge m -> n for every node n whose immediate
// post-dominator is m. The tree is rooted at the exit of cfg. Nodes that cannot reach the exit have no
// immediate post-dominator and are not part of the tree.
func ComputeTree(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	dom, err := ComputeDominance(cfg)
	if err != nil {
		return nil, err
	}
	return TreeOf(dom), nil
}

// TreeOf assembles the post-dominator tree from the dominance sets.
func TreeOf(dom Dominance) *programgraph.ProgramGraph {
	// strict post-dominators, consumed by the peeling
	strict := make(map[programgraph.ID]programgraph.NodeSet, len(dom.sets))
	var order []*programgraph.Node
	for id, s := range dom.sets {
		if !dom.reaching.Contains(s[id]) {
			continue
		}
		c := s.Clone()
		c.Remove(s[id])
		strict[id] = c
		order = append(order, s[id])
	}
	order = programgraph.NewNodeSet(order...).Sorted()

	tree := programgraph.New()
	tree.AddNode(dom.root)
	queue := []*programgraph.Node{dom.root}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		for _, n := range order {
			remaining := strict[n.ID()]
			if !remaining.Contains(m) {
				continue
			}
			remaining.Remove(m)
			if remaining.IsEmpty() {
				tree.AddEdge(m, n)
				queue = append(queue, n)
			}
		}
	}
	return tree
}

// Analysis computes post-dominator trees. It implements programgraph.Analysis.
type Analysis struct {
	// BoundFactor scales the bound on fixed-point passes (see programgraph.FixpointBound)
	BoundFactor int

	// Verify cross-checks the tree with the Lengauer-Tarjan algorithm
	Verify bool
}

// ComputeResult returns the post-dominator tree of cfg
func (a Analysis) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	dom, err := computeDominance(cfg, a.BoundFactor)
	if err != nil {
		return nil, err
	}
	tree := TreeOf(dom)
	if a.Verify {
		if err := VerifyTree(cfg, tree); err != nil {
			return nil, err
		}
	}
	return tree, nil
}
