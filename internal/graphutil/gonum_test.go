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

package graphutil

import (
	"testing"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"gonum.org/v1/gonum/graph"
)

func TestGonumLines(t *testing.T) {
	alloc := programgraph.NewIDAllocator()
	a := alloc.NewSyntheticNode("a")
	b := alloc.NewSyntheticNode("b")
	c := alloc.NewSyntheticNode("c")
	g := programgraph.New()
	g.AddEdge(a, b)
	g.AddEdge(a, b)
	g.AddEdge(b, b)
	g.AddEdge(b, a)
	g.AddNode(c)
	gg := NewGonum(g)
	id := func(n *programgraph.Node) int64 { return int64(n.ID()) }

	for _, test := range []struct {
		from, to *programgraph.Node
		expected int
	}{
		{a, b, 2},
		{b, b, 1},
		{b, a, 1},
		{a, c, 0},
		{c, a, 0},
	} {
		lines := graph.LinesOf(gg.Lines(id(test.from), id(test.to)))
		if len(lines) != test.expected {
			t.Errorf("expected %d lines from %v to %v, got %d", test.expected, test.from, test.to, len(lines))
		}
		seen := map[int64]bool{}
		for _, l := range lines {
			if l.From().ID() != id(test.from) || l.To().ID() != id(test.to) {
				t.Errorf("line %v has the wrong endpoints", l)
			}
			if seen[l.ID()] {
				t.Errorf("line id %d is not unique between %v and %v", l.ID(), test.from, test.to)
			}
			seen[l.ID()] = true
		}
	}
	if n := len(graph.LinesOf(gg.LinesBetween(id(a), id(b)))); n != 3 {
		t.Errorf("expected 3 lines between a and b, got %d", n)
	}
	if n := len(graph.LinesOf(gg.LinesBetween(id(b), id(b)))); n != 1 {
		t.Errorf("expected the self-loop of b once, got %d", n)
	}
	if len(graph.LinesOf(gg.Lines(id(a), 1000))) != 0 {
		t.Errorf("expected no lines to an absent node")
	}
}
