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
	"errors"
	"strings"
	"testing"
)

// namedNodes allocates one synthetic node per name
func namedNodes(names ...string) map[string]*Node {
	alloc := NewIDAllocator()
	m := map[string]*Node{}
	for _, name := range names {
		m[name] = alloc.NewSyntheticNode(name)
	}
	return m
}

func chain(names ...string) (*ProgramGraph, map[string]*Node) {
	n := namedNodes(names...)
	g := New()
	for i := 0; i+1 < len(names); i++ {
		g.AddEdge(n[names[i]], n[names[i+1]])
	}
	return g, n
}

func TestReverseChain(t *testing.T) {
	g, n := chain("n1", "n2", "n3", "n4")
	r := Reverse(g)
	if !r.NodeSet().Equal(g.NodeSet()) {
		t.Fatalf("reversed graph has nodes %v, expected %v", r.NodeSet(), g.NodeSet())
	}
	if r.NumEdges() != 3 {
		t.Fatalf("expected 3 edges, got %d:\n%s", r.NumEdges(), r)
	}
	for _, e := range [][2]string{{"n2", "n1"}, {"n3", "n2"}, {"n4", "n3"}} {
		if !r.HasEdge(n[e[0]], n[e[1]]) {
			t.Errorf("missing reversed edge %s -> %s", e[0], e[1])
		}
	}
	// the input is unchanged
	if !g.HasEdge(n["n1"], n["n2"]) || g.HasEdge(n["n2"], n["n1"]) {
		t.Errorf("reversal mutated its input")
	}
}

func TestReverseKeepsMultiplicity(t *testing.T) {
	n := namedNodes("a", "b", "c")
	g := New()
	g.AddEdge(n["a"], n["b"])
	g.AddEdge(n["b"], n["c"])
	g.AddEdge(n["b"], n["c"])
	r := Reverse(g)
	if m := r.Multiplicity(n["c"], n["b"]); m != 2 {
		t.Errorf("expected multiplicity 2 for c -> b, got %d", m)
	}
}

func TestEntryExit(t *testing.T) {
	g, n := chain("entry", "x", "exit")
	entry, err := g.Entry()
	if err != nil || !entry.Equal(n["entry"]) {
		t.Errorf("expected entry node, got %v (err: %v)", entry, err)
	}
	exit, err := g.Exit()
	if err != nil || !exit.Equal(n["exit"]) {
		t.Errorf("expected exit node, got %v (err: %v)", exit, err)
	}

	other := NewIDAllocator().NewSyntheticNode("other")
	other.id = 99
	g.AddNode(other)
	if _, err := g.Entry(); !errors.Is(err, ErrGraphInvariant) {
		t.Errorf("expected invariant violation with two entries, got %v", err)
	}
	if _, err := g.Exit(); !errors.Is(err, ErrGraphInvariant) {
		t.Errorf("expected invariant violation with two exits, got %v", err)
	}
	if _, err := New().Entry(); !errors.Is(err, ErrGraphInvariant) {
		t.Errorf("expected invariant violation on empty graph, got %v", err)
	}
}

func TestAbsentNodeHasNoNeighbours(t *testing.T) {
	g, _ := chain("a", "b")
	absent := NewIDAllocator().NewSyntheticNode("absent")
	absent.id = 1000
	if !g.Successors(absent).IsEmpty() || !g.Predecessors(absent).IsEmpty() {
		t.Errorf("absent node should have no neighbours")
	}
	if !g.TransitiveSuccessors(absent).IsEmpty() {
		t.Errorf("absent node should have no transitive successors")
	}
}

func TestParallelEdgesAndSelfLoops(t *testing.T) {
	n := namedNodes("a", "b")
	g := New()
	g.AddEdge(n["a"], n["b"])
	g.AddEdge(n["a"], n["b"])
	g.AddEdge(n["b"], n["b"])
	if g.NumEdges() != 3 {
		t.Errorf("expected 3 edges, got %d", g.NumEdges())
	}
	if g.Multiplicity(n["a"], n["b"]) != 2 {
		t.Errorf("expected multiplicity 2")
	}
	if g.Successors(n["a"]).Len() != 1 {
		t.Errorf("successors should be a set")
	}
	if !g.TransitiveSuccessors(n["b"]).Contains(n["b"]) {
		t.Errorf("a node with a self-loop is its own transitive successor")
	}
}

func TestTransitiveSuccessors(t *testing.T) {
	n := namedNodes("a", "b", "c", "d", "e")
	g := New()
	g.AddEdge(n["a"], n["b"])
	g.AddEdge(n["b"], n["c"])
	g.AddEdge(n["c"], n["b"])
	g.AddEdge(n["c"], n["d"])
	g.AddEdge(n["e"], n["a"])

	ts := g.TransitiveSuccessors(n["a"])
	expected := NewNodeSet(n["b"], n["c"], n["d"])
	if !ts.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, ts)
	}
	if ts.Contains(n["a"]) {
		t.Errorf("a is not on a cycle and should not be its own successor")
	}
	if !g.TransitiveSuccessors(n["b"]).Contains(n["b"]) {
		t.Errorf("b is on a cycle and should be its own successor")
	}
	if !g.TransitiveSuccessors(n["d"]).IsEmpty() {
		t.Errorf("d has no successors")
	}
}

func TestSuccessorsUntilMarker(t *testing.T) {
	n := namedNodes("L1", "store", "load", "L2", "after", "loop")
	g := New()
	g.AddEdge(n["L1"], n["store"])
	g.AddEdge(n["store"], n["load"])
	g.AddEdge(n["load"], n["L2"])
	g.AddEdge(n["L2"], n["after"])
	g.AddEdge(n["load"], n["loop"])
	g.AddEdge(n["loop"], n["store"])

	isMarker := func(x *Node) bool { return strings.HasPrefix(x.Label(), "L") }
	res := g.SuccessorsUntilMarker(n["L1"], isMarker)
	var labels []string
	for _, x := range res {
		labels = append(labels, x.Label())
	}
	if strings.Join(labels, ",") != "store,load,loop" {
		t.Errorf("unexpected bounded successors: %v", labels)
	}
}

func tree() (*ProgramGraph, map[string]*Node) {
	n := namedNodes("root", "a", "b", "a1", "a2", "b1")
	g := New()
	g.AddEdge(n["root"], n["a"])
	g.AddEdge(n["root"], n["b"])
	g.AddEdge(n["a"], n["a1"])
	g.AddEdge(n["a"], n["a2"])
	g.AddEdge(n["b"], n["b1"])
	return g, n
}

func TestLeastCommonAncestor(t *testing.T) {
	g, n := tree()
	for _, tc := range []struct{ x, y, lca string }{
		{"a1", "a2", "a"},
		{"a1", "b1", "root"},
		{"a", "a2", "a"},
		{"a2", "a", "a"},
		{"b1", "b1", "b1"},
		{"root", "b1", "root"},
	} {
		lca, err := g.LeastCommonAncestor(n[tc.x], n[tc.y])
		if err != nil {
			t.Errorf("lca(%s, %s): unexpected error %v", tc.x, tc.y, err)
			continue
		}
		if !lca.Equal(n[tc.lca]) {
			t.Errorf("lca(%s, %s) = %s, expected %s", tc.x, tc.y, lca.Label(), tc.lca)
		}
	}
}

func TestLeastCommonAncestorFailures(t *testing.T) {
	g, n := tree()
	// b1 gets a second parent: not a tree anymore
	g.AddEdge(n["a"], n["b1"])
	if _, err := g.LeastCommonAncestor(n["b1"], n["a2"]); !errors.Is(err, ErrUnresolvedAncestor) {
		t.Errorf("expected unresolved ancestor on a non-tree, got %v", err)
	}

	forest := New()
	m := namedNodes("r1", "x", "r2", "y")
	forest.AddEdge(m["r1"], m["x"])
	forest.AddEdge(m["r2"], m["y"])
	if _, err := forest.LeastCommonAncestor(m["x"], m["y"]); !errors.Is(err, ErrUnresolvedAncestor) {
		t.Errorf("expected unresolved ancestor for disconnected nodes, got %v", err)
	}
}

func TestAllocatorsAreIndependent(t *testing.T) {
	a1 := NewIDAllocator()
	a2 := NewIDAllocator()
	x := a1.NewSyntheticNode("x")
	y := a2.NewSyntheticNode("y")
	if x.ID() != 1 || y.ID() != 1 {
		t.Errorf("each allocator should start at 1, got %d and %d", x.ID(), y.ID())
	}
	z := a1.NewNode(nil, 3)
	if z.ID() != 2 || a1.Allocated() != 2 || a2.Allocated() != 1 {
		t.Errorf("allocators should count independently")
	}
}

func TestNodeEqualityIsIdentity(t *testing.T) {
	alloc := NewIDAllocator()
	x := alloc.NewSyntheticNode("same")
	y := alloc.NewSyntheticNode("same")
	if x.Equal(y) {
		t.Errorf("nodes with the same label but different identities must differ")
	}
	s := NewNodeSet(x, y)
	if s.Len() != 2 {
		t.Errorf("expected two distinct nodes in the set")
	}
}
