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

package controldep

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-slicer/analysis/postdom"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

func build(names []string, edges [][2]string) (*programgraph.ProgramGraph, map[string]*programgraph.Node) {
	alloc := programgraph.NewIDAllocator()
	g := programgraph.New()
	nodes := map[string]*programgraph.Node{}
	for _, name := range names {
		nodes[name] = alloc.NewSyntheticNode(name)
		g.AddNode(nodes[name])
	}
	for _, e := range edges {
		g.AddEdge(nodes[e[0]], nodes[e[1]])
	}
	return g, nodes
}

func edgeString(g *programgraph.ProgramGraph) string {
	var res []string
	for _, e := range g.Edges() {
		res = append(res, e.From.Label()+"->"+e.To.Label())
	}
	sort.Strings(res)
	return strings.Join(res, " ")
}

func TestLoopExample(t *testing.T) {
	names := []string{
		"Entry", "n1", "n2", "n3", "n5", "n100", "n110", "n120", "n130", "n140", "n150", "n160", "n170",
		"n180", "n190", "n200", "n210", "n300", "Exit",
	}
	cfg, _ := build(names, [][2]string{
		{"Entry", "n1"}, {"n1", "n2"}, {"n2", "n3"}, {"n3", "n5"}, {"n5", "n100"}, {"n100", "n110"},
		{"n110", "n120"}, {"n110", "n300"}, {"n120", "n130"}, {"n130", "n140"}, {"n140", "n150"},
		{"n140", "n200"}, {"n200", "n210"}, {"n210", "n110"}, {"n150", "n160"}, {"n160", "n170"},
		{"n160", "n190"}, {"n170", "n180"}, {"n180", "n190"}, {"n190", "n140"}, {"n300", "Exit"},
	})
	cdg, err := Compute(cfg)
	if err != nil {
		t.Fatalf("failed to compute control dependences: %v", err)
	}
	expected := []string{
		"n110->n120", "n110->n130", "n110->n140", "n110->n200", "n110->n210",
		"n140->n150", "n140->n160", "n140->n190",
		"n160->n170", "n160->n180",
		// loop headers depend on themselves: for the edge into the loop body, the least common ancestor in the
		// post-dominator tree is the header itself, which is then recorded as its own dependent
		"n110->n110", "n140->n140",
	}
	sort.Strings(expected)
	if got := edgeString(cdg); got != strings.Join(expected, " ") {
		t.Errorf("unexpected control dependences\nexpected: %s\ngot:      %s", strings.Join(expected, " "), got)
	}
	if !cdg.NodeSet().Equal(cfg.NodeSet()) {
		t.Errorf("control-dependence graph should have the nodes of the control-flow graph")
	}
	if cfg.NumEdges() != 21 {
		t.Errorf("input graph was modified")
	}
}

func TestIfThenElse(t *testing.T) {
	cfg, _ := build([]string{"Entry", "cond", "then", "else", "join", "Exit"}, [][2]string{
		{"Entry", "cond"}, {"cond", "then"}, {"cond", "else"}, {"then", "join"}, {"else", "join"},
		{"join", "Exit"},
	})
	cdg, err := Analysis{PostDominance: postdom.Analysis{Verify: true}}.ComputeResult(cfg)
	if err != nil {
		t.Fatalf("failed to compute control dependences: %v", err)
	}
	if got := edgeString(cdg); got != "cond->else cond->then" {
		t.Errorf("unexpected control dependences %s", got)
	}
}

func TestEarlyReturn(t *testing.T) {
	// guard returns early; the rest of the body depends on it
	cfg, _ := build([]string{"Entry", "guard", "ret", "body", "tail", "Exit"}, [][2]string{
		{"Entry", "guard"}, {"guard", "ret"}, {"guard", "body"}, {"body", "tail"}, {"ret", "Exit"},
		{"tail", "Exit"},
	})
	cdg, err := Compute(cfg)
	if err != nil {
		t.Fatalf("failed to compute control dependences: %v", err)
	}
	if got := edgeString(cdg); got != "guard->body guard->ret guard->tail" {
		t.Errorf("unexpected control dependences %s", got)
	}
}

func TestStraightLineHasNoDependence(t *testing.T) {
	cfg, _ := build([]string{"Entry", "a", "b", "Exit"}, [][2]string{
		{"Entry", "a"}, {"a", "b"}, {"b", "Exit"},
	})
	cdg, err := Compute(cfg)
	if err != nil {
		t.Fatalf("failed to compute control dependences: %v", err)
	}
	if cdg.NumEdges() != 0 {
		t.Errorf("expected no control dependences, got %s", edgeString(cdg))
	}
}

func TestInfiniteLoopIsUnresolved(t *testing.T) {
	cfg, _ := build([]string{"Entry", "a", "spin", "Exit"}, [][2]string{
		{"Entry", "a"}, {"a", "Exit"}, {"a", "spin"}, {"spin", "spin"},
	})
	if _, err := Compute(cfg); !errors.Is(err, programgraph.ErrUnresolvedAncestor) {
		t.Errorf("expected unresolved ancestor, got %v", err)
	}
}
