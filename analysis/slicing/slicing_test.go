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

package slicing

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/defuse"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// marker is a line marker of the toy language
type marker int

func (m marker) String() string { return fmt.Sprintf("L%d", int(m)) }

// stmt is a statement of the toy language. It writes to local variables, or to a field if field is set.
type stmt struct {
	name  string
	defs  []string
	uses  []string
	field bool
}

func (s stmt) String() string { return s.name }

type toyProbe struct{}

func (toyProbe) LineOf(n *programgraph.Node) (int, bool) {
	m, ok := n.Instr().(marker)
	return int(m), ok
}

func (toyProbe) StoredLocal(n *programgraph.Node) (string, bool) {
	s, ok := n.Instr().(stmt)
	if !ok || s.field || len(s.defs) == 0 {
		return "", false
	}
	return s.defs[0], true
}

func (toyProbe) StoredField(n *programgraph.Node) (string, bool) {
	s, ok := n.Instr().(stmt)
	if !ok || !s.field || len(s.defs) == 0 {
		return "", false
	}
	return s.defs[0], true
}

var toyOracle = defuse.Func(func(n *programgraph.Node) (defuse.DefUse, error) {
	du := defuse.Empty()
	s, ok := n.Instr().(stmt)
	if !ok {
		return du, nil
	}
	for _, v := range s.defs {
		du.Defs.Add(defuse.Variable{Kind: defuse.Local, Key: v})
	}
	for _, v := range s.uses {
		du.Uses.Add(defuse.Variable{Kind: defuse.Local, Key: v})
	}
	return du, nil
})

type program struct {
	cfg   *programgraph.ProgramGraph
	nodes map[string]*programgraph.Node
}

// newProgram builds a control-flow graph. Every statement is preceded by the marker of its line, named "m<line>".
func newProgram(stmts []stmt, lines []int, edges [][2]string) program {
	alloc := programgraph.NewIDAllocator()
	p := program{cfg: programgraph.New(), nodes: map[string]*programgraph.Node{}}
	p.nodes["Entry"] = alloc.NewSyntheticNode("Entry")
	for i, s := range stmts {
		m := fmt.Sprintf("m%d", lines[i])
		if _, ok := p.nodes[m]; !ok {
			p.nodes[m] = alloc.NewNode(marker(lines[i]), lines[i])
		}
		p.nodes[s.name] = alloc.NewNode(s, lines[i])
	}
	p.nodes["Exit"] = alloc.NewSyntheticNode("Exit")
	for _, e := range edges {
		src, ok1 := p.nodes[e[0]]
		dst, ok2 := p.nodes[e[1]]
		if !ok1 || !ok2 {
			panic("bad edge " + e[0] + "->" + e[1])
		}
		p.cfg.AddEdge(src, dst)
	}
	return p
}

func names(s programgraph.NodeSet) string {
	var res []string
	for _, n := range s.Sorted() {
		if n.IsSynthetic() {
			res = append(res, n.Label())
		} else {
			res = append(res, fmt.Sprintf("%v", n.Instr()))
		}
	}
	sort.Strings(res)
	return strings.Join(res, ",")
}

// branches is
//
//	1 a := input
//	2 if a > 0 {
//	3     b = a
//	4 } else {
//	5     b = 1
//	  }
//	6 c := b
//	7 d := 2
func branches() program {
	return newProgram([]stmt{
		{name: "a := input", defs: []string{"a"}},
		{name: "if a > 0", uses: []string{"a"}},
		{name: "b = a", defs: []string{"b"}, uses: []string{"a"}},
		{name: "b = 1", defs: []string{"b"}},
		{name: "c := b", defs: []string{"c"}, uses: []string{"b"}},
		{name: "d := 2", defs: []string{"d"}},
	}, []int{1, 2, 3, 5, 6, 7}, [][2]string{
		{"Entry", "m1"}, {"m1", "a := input"}, {"a := input", "m2"}, {"m2", "if a > 0"},
		{"if a > 0", "m3"}, {"m3", "b = a"}, {"b = a", "m6"},
		{"if a > 0", "m5"}, {"m5", "b = 1"}, {"b = 1", "m6"},
		{"m6", "c := b"}, {"c := b", "m7"}, {"m7", "d := 2"}, {"d := 2", "Exit"},
	})
}

func TestComputePDG(t *testing.T) {
	alloc := programgraph.NewIDAllocator()
	a, b, c := alloc.NewSyntheticNode("a"), alloc.NewSyntheticNode("b"), alloc.NewSyntheticNode("c")
	cdg := programgraph.New()
	cdg.AddNode(c)
	cdg.AddEdge(a, b)
	ddg := programgraph.New()
	ddg.AddNode(c)
	ddg.AddEdge(a, b)
	ddg.AddEdge(b, c)
	pdg := ComputePDG(cdg, ddg)
	if pdg.Len() != 3 || pdg.NumEdges() != 2 {
		t.Errorf("expected 3 nodes and 2 edges, got %s", pdg)
	}
	if pdg.Multiplicity(a, b) != 1 {
		t.Errorf("an edge in both graphs should appear once")
	}
	if cdg.NumEdges() != 1 || ddg.NumEdges() != 2 {
		t.Errorf("inputs should not be modified")
	}
}

func TestPDGAnalysis(t *testing.T) {
	p := branches()
	if _, err := (PDG{}).ComputeResult(p.cfg); err == nil {
		t.Errorf("expected an error without a data-dependence analysis")
	}
	pdg, err := PDG{Data: dataAnalysis{}}.ComputeResult(p.cfg)
	if err != nil {
		t.Fatalf("failed to compute program dependences: %v", err)
	}
	if !pdg.NodeSet().Equal(p.cfg.NodeSet()) {
		t.Errorf("the program-dependence graph should have the nodes of the control-flow graph")
	}
	for _, e := range [][2]string{
		{"if a > 0", "b = a"}, {"if a > 0", "b = 1"}, {"a := input", "if a > 0"}, {"b = a", "c := b"},
		{"b = 1", "c := b"}, {"a := input", "b = a"},
	} {
		if !pdg.HasEdge(p.nodes[e[0]], p.nodes[e[1]]) {
			t.Errorf("missing dependence %s -> %s", e[0], e[1])
		}
	}
}

// dataAnalysis computes the data dependences of the toy language
type dataAnalysis struct{}

func (dataAnalysis) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	r := programgraph.WithNodes(cfg)
	for _, use := range cfg.Nodes() {
		du, _ := toyOracle.DefUse(use)
		for _, def := range cfg.Nodes() {
			ddu, _ := toyOracle.DefUse(def)
			for v := range du.Uses {
				if ddu.Defs.Contains(v) && def.ID() < use.ID() {
					r.AddEdge(def, use)
				}
			}
		}
	}
	return r, nil
}

func TestResolveCriterion(t *testing.T) {
	p := newProgram([]stmt{
		{name: "x := 1", defs: []string{"x"}},
		{name: "y := x", defs: []string{"y"}, uses: []string{"x"}},
		{name: "s.f = y", defs: []string{"f"}, uses: []string{"y"}, field: true},
		{name: "x = 2", defs: []string{"x"}},
		{name: "z := x", defs: []string{"z"}, uses: []string{"x"}},
	}, []int{1, 1, 2, 3, 4}, [][2]string{
		{"Entry", "m1"}, {"m1", "x := 1"}, {"x := 1", "y := x"}, {"y := x", "m2"}, {"m2", "s.f = y"},
		{"s.f = y", "m3"}, {"m3", "x = 2"}, {"x = 2", "m4"}, {"m4", "z := x"}, {"z := x", "Exit"},
	})
	tests := []struct {
		line     int
		variable string
		expected string
	}{
		{1, "x", "x := 1"},
		{1, "y", "y := x"},
		{2, "f", "s.f = y"},
		{3, "x", "x = 2"},
		{4, "z", "z := x"},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d-%s", test.line, test.variable), func(t *testing.T) {
			c, err := ResolveCriterion(p.cfg, toyProbe{}, test.line, test.variable)
			if err != nil {
				t.Fatalf("failed to resolve criterion: %v", err)
			}
			if c != p.nodes[test.expected] {
				t.Errorf("expected %q, got %v", test.expected, c)
			}
		})
	}
	for _, test := range []struct {
		line     int
		variable string
	}{
		{1, "z"}, // z is written after the next marker
		{2, "y"},
		{9, "x"},
		{3, "f"},
	} {
		_, err := ResolveCriterion(p.cfg, toyProbe{}, test.line, test.variable)
		if !errors.Is(err, ErrCriterionNotFound) {
			t.Errorf("line %d variable %s: expected criterion not found, got %v", test.line, test.variable, err)
		}
	}
}

func TestResolveCriterionTriesEveryMarker(t *testing.T) {
	// a loop header and its post statement share line 2, with different markers
	alloc := programgraph.NewIDAllocator()
	cfg := programgraph.New()
	entry, exit := alloc.NewSyntheticNode("Entry"), alloc.NewSyntheticNode("Exit")
	m2a := alloc.NewNode(marker(2), 2)
	cond := alloc.NewNode(stmt{name: "i < n", uses: []string{"i", "n"}}, 2)
	m3 := alloc.NewNode(marker(3), 3)
	body := alloc.NewNode(stmt{name: "s += i", defs: []string{"s"}, uses: []string{"s", "i"}}, 3)
	m2b := alloc.NewNode(marker(2), 2)
	post := alloc.NewNode(stmt{name: "i++", defs: []string{"i"}, uses: []string{"i"}}, 2)
	cfg.AddEdge(entry, m2a)
	cfg.AddEdge(m2a, cond)
	cfg.AddEdge(cond, m3)
	cfg.AddEdge(m3, body)
	cfg.AddEdge(body, m2b)
	cfg.AddEdge(m2b, post)
	cfg.AddEdge(post, m2a)
	cfg.AddEdge(cond, exit)
	c, err := ResolveCriterion(cfg, toyProbe{}, 2, "i")
	if err != nil {
		t.Fatalf("failed to resolve criterion: %v", err)
	}
	if c != post {
		t.Errorf("expected the post statement, got %v", c)
	}
}

func TestBackwardSlice(t *testing.T) {
	p := branches()
	pdg, err := PDG{Data: dataAnalysis{}}.ComputeResult(p.cfg)
	if err != nil {
		t.Fatal(err)
	}
	before := pdg.String()
	slice := BackwardSlice(pdg, p.nodes["c := b"])
	expected := "a := input,b = 1,b = a,c := b,if a > 0"
	if got := names(slice); got != expected {
		t.Errorf("expected slice %s, got %s", expected, got)
	}
	if got := names(BackwardSlice(pdg, p.nodes["d := 2"])); got != "d := 2" {
		t.Errorf("expected d := 2 to depend on nothing, got %s", got)
	}
	if pdg.String() != before {
		t.Errorf("slicing modified the program-dependence graph")
	}
}

// randomPDG builds a graph where each node has up to three random successors
func randomPDG(size int, seed int64) (*programgraph.ProgramGraph, []*programgraph.Node) {
	r := rand.New(rand.NewSource(seed))
	alloc := programgraph.NewIDAllocator()
	g := programgraph.New()
	nodes := make([]*programgraph.Node, size)
	for i := range nodes {
		nodes[i] = alloc.NewSyntheticNode(fmt.Sprintf("n%d", i))
		g.AddNode(nodes[i])
	}
	for i := 0; i < size; i++ {
		for j := 0; j < 3; j++ {
			if r.Float32() < 0.6 {
				g.AddEdge(nodes[i], nodes[r.Intn(size)])
			}
		}
	}
	return g, nodes
}

func TestBackwardSliceIsInfluenceClosure(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		pdg, nodes := randomPDG(30, seed)
		for _, c := range nodes {
			slice := BackwardSlice(pdg, c)
			for _, n := range nodes {
				influences := n == c || pdg.TransitiveSuccessors(n).Contains(c)
				if influences != slice.Contains(n) {
					t.Fatalf("seed %d: slice of %v: %v influences: %v, in slice: %v", seed, c, n, influences,
						slice.Contains(n))
				}
			}
			// re-slicing gives the same set
			if !BackwardSlice(pdg, c).Equal(slice) {
				t.Fatalf("seed %d: slicing %v twice gave different results", seed, c)
			}
		}
	}
}

func newTestSlicer(level config.LogLevel) (*Slicer, *bytes.Buffer) {
	c := config.NewDefault()
	c.VerifyDominators = true
	logger := config.NewLogGroup(c)
	logger.SetLevel(level)
	var buf bytes.Buffer
	logger.SetAllOutput(&buf)
	return NewSlicer(c, logger), &buf
}

func TestSlicer(t *testing.T) {
	p := branches()
	slicer, logs := newTestSlicer(config.TraceLevel)
	res, err := slicer.Slice(Request{CFG: p.cfg, Oracle: toyOracle, Probe: toyProbe{}, Line: 6, Variable: "c"})
	if err != nil {
		t.Fatalf("failed to slice: %v", err)
	}
	if res.Criterion != p.nodes["c := b"] {
		t.Errorf("unexpected criterion %v", res.Criterion)
	}
	expected := "a := input,b = 1,b = a,c := b,if a > 0"
	if got := names(res.Slice); got != expected {
		t.Errorf("expected slice %s, got %s", expected, got)
	}
	for s := CFGBuilt; s <= PDGComputed; s++ {
		g := res.Graph(s)
		if g == nil {
			t.Fatalf("missing graph of stage %s", s)
		}
		if !strings.Contains(logs.String(), s.String()+" done") {
			t.Errorf("stage %s was not logged", s)
		}
	}
	if res.Graph(SliceComputed) != nil || res.Graph(Unbuilt) != nil {
		t.Errorf("only graph stages have graphs")
	}
	if !strings.Contains(logs.String(), "[TRACE]") {
		t.Errorf("expected the slice to be traced")
	}
}

func TestSlicerErrors(t *testing.T) {
	p := branches()
	slicer, _ := newTestSlicer(config.ErrLevel)

	res, err := slicer.Slice(Request{CFG: p.cfg, Oracle: toyOracle, Probe: toyProbe{}, Line: 6, Variable: "d"})
	if !errors.Is(err, ErrCriterionNotFound) || res != nil {
		t.Errorf("expected criterion not found and no result, got %v, %v", res, err)
	}

	failing := defuse.Func(func(n *programgraph.Node) (defuse.DefUse, error) {
		return defuse.DefUse{}, fmt.Errorf("cannot decode %v", n)
	})
	res, err = slicer.Slice(Request{CFG: p.cfg, Oracle: failing, Probe: toyProbe{}, Line: 6, Variable: "c"})
	if err == nil || res != nil || !strings.Contains(err.Error(), DDGComputed.String()) {
		t.Errorf("expected the data-dependence stage to fail, got %v, %v", res, err)
	}

	// the exit is not reachable from the loop
	spin := newProgram([]stmt{
		{name: "x := 0", defs: []string{"x"}},
		{name: "x++", defs: []string{"x"}, uses: []string{"x"}},
	}, []int{1, 2}, [][2]string{
		{"Entry", "m1"}, {"m1", "x := 0"}, {"x := 0", "m2"}, {"m2", "x++"}, {"x++", "m2"}, {"x := 0", "Exit"},
	})
	_, err = slicer.Slice(Request{CFG: spin.cfg, Oracle: toyOracle, Probe: toyProbe{}, Line: 2, Variable: "x"})
	if err == nil {
		t.Errorf("expected slicing an infinite loop to fail")
	}

	twoExits := newProgram([]stmt{
		{name: "x := 0", defs: []string{"x"}},
		{name: "y := x", defs: []string{"y"}, uses: []string{"x"}},
		{name: "z := 1", defs: []string{"z"}},
	}, []int{1, 2, 3}, [][2]string{
		{"Entry", "m1"}, {"m1", "x := 0"}, {"x := 0", "m2"}, {"m2", "y := x"}, {"y := x", "Exit"}, {"x := 0", "z := 1"},
	})
	_, err = slicer.Slice(Request{CFG: twoExits.cfg, Oracle: toyOracle, Probe: toyProbe{}, Line: 2, Variable: "y"})
	if !errors.Is(err, programgraph.ErrGraphInvariant) {
		t.Errorf("expected an error for a graph without unique exit, got %v", err)
	}

	if _, err := slicer.Slice(Request{Oracle: toyOracle, Probe: toyProbe{}}); err == nil {
		t.Errorf("expected an error without control-flow graph")
	}
}
