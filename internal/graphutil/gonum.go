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

// Package graphutil adapts program graphs to existing graph libraries (gonum, yourbasic) and implements generic
// graph algorithms used across the analyses.
package graphutil

import (
	"fmt"
	"strconv"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/iterator"
)

// Gonum is an abstraction over a ProgramGraph to work with the gonum graph library. It implements gonum's
// graph.Directed and graph.DirectedMultigraph interfaces. Node ids are the identities of the program graph nodes.
type Gonum struct {
	// Graph is the program graph being adapted
	Graph *programgraph.ProgramGraph

	// Label returns the label of a node when the graph is encoded (e.g. in dot format). If nil, the node's String
	// is used.
	Label func(*programgraph.Node) string
}

var (
	_ graph.Directed           = Gonum{}
	_ graph.DirectedMultigraph = Gonum{}
)

// NewGonum returns a gonum view of g
func NewGonum(g *programgraph.ProgramGraph) Gonum {
	return Gonum{Graph: g}
}

func (c Gonum) wrap(n *programgraph.Node) GNode {
	label := ""
	if c.Label != nil {
		label = c.Label(n)
	} else {
		label = n.String()
	}
	return GNode{Node: n, label: label}
}

func (c Gonum) wrapAll(nodes []*programgraph.Node) graph.Nodes {
	res := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		res[i] = c.wrap(n)
	}
	return iterator.NewOrderedNodes(res)
}

// *************** Graph interface implementation **********************

// Node returns the node with the given id, or nil if there is no such node
func (c Gonum) Node(id int64) graph.Node {
	n := c.Graph.Node(programgraph.ID(id))
	if n == nil {
		return nil
	}
	return c.wrap(n)
}

// Nodes returns the set of nodes in the graph, in increasing id order
func (c Gonum) Nodes() graph.Nodes {
	return c.wrapAll(c.Graph.Nodes())
}

// From returns the set of nodes reachable from the id through one edge
func (c Gonum) From(id int64) graph.Nodes {
	return c.wrapAll(c.Graph.SortedSuccessors(c.Graph.Node(programgraph.ID(id))))
}

// To returns the set of nodes that have an edge to the id
func (c Gonum) To(id int64) graph.Nodes {
	return c.wrapAll(c.Graph.SortedPredecessors(c.Graph.Node(programgraph.ID(id))))
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c Gonum) HasEdgeBetween(xid, yid int64) bool {
	return c.HasEdgeFromTo(xid, yid) || c.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns whether there is a directed edge from uid to vid
func (c Gonum) HasEdgeFromTo(uid, vid int64) bool {
	u := c.Graph.Node(programgraph.ID(uid))
	v := c.Graph.Node(programgraph.ID(vid))
	return u != nil && v != nil && c.Graph.HasEdge(u, v)
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c Gonum) Edge(uid, vid int64) graph.Edge {
	if !c.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return GEdge{
		from: c.wrap(c.Graph.Node(programgraph.ID(uid))),
		to:   c.wrap(c.Graph.Node(programgraph.ID(vid))),
	}
}

// *************** Multigraph interface implementation **********************

// Lines returns one line per unit of multiplicity of the edge from uid to vid. Line ids are 0..k-1 for k
// parallel edges.
func (c Gonum) Lines(uid, vid int64) graph.Lines {
	u := c.Graph.Node(programgraph.ID(uid))
	v := c.Graph.Node(programgraph.ID(vid))
	if u == nil || v == nil {
		return graph.Empty
	}
	k := c.Graph.Multiplicity(u, v)
	if k == 0 {
		return graph.Empty
	}
	from, to := c.wrap(u), c.wrap(v)
	lines := make([]graph.Line, k)
	for i := range lines {
		lines[i] = GLine{from: from, to: to, id: int64(i)}
	}
	return iterator.NewOrderedLines(lines)
}

// LinesBetween returns the lines between xid and yid in both directions
func (c Gonum) LinesBetween(xid, yid int64) graph.Lines {
	lines := graph.LinesOf(c.Lines(xid, yid))
	if xid != yid {
		lines = append(lines, graph.LinesOf(c.Lines(yid, xid))...)
	}
	if len(lines) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedLines(lines)
}

// *************** Nodes implementation **********************

// GNode is a wrapper around a *programgraph.Node that implements the graph.Node interface
type GNode struct {
	Node  *programgraph.Node
	label string
}

// ID returns the id of the node
func (n GNode) ID() int64 {
	return int64(n.Node.ID())
}

// DOTID returns the identifier of the node in dot format
func (n GNode) DOTID() string {
	return "n" + strconv.FormatInt(n.ID(), 10)
}

// Attributes returns the dot attributes of the node
func (n GNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.label}}
}

func (n GNode) String() string {
	return fmt.Sprintf("%d:%s", n.ID(), n.label)
}

// *************** Edge implementation **********************

// GEdge implements the graph.Edge interface
type GEdge struct {
	from GNode
	to   GNode
}

// From returns the origin of the edge
func (e GEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e GEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e GEdge) ReversedEdge() graph.Edge {
	return GEdge{from: e.to, to: e.from}
}

// GLine implements the graph.Line interface. Parallel edges of a program graph are distinguished by id.
type GLine struct {
	from GNode
	to   GNode
	id   int64
}

// From returns the origin of the line
func (l GLine) From() graph.Node {
	return l.from
}

// To returns the destination of the line
func (l GLine) To() graph.Node {
	return l.to
}

// ReversedLine returns the line with its endpoints swapped
func (l GLine) ReversedLine() graph.Line {
	return GLine{from: l.to, to: l.from, id: l.id}
}

// ID returns the index of the line among the parallel edges it belongs to
func (l GLine) ID() int64 {
	return l.id
}
