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
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/yourbasic/graph"
)

// Dense is a view of a program graph with nodes numbered densely from 0 in increasing id order. It implements
// the yourbasic graph.Iterator interface.
type Dense struct {
	g     *programgraph.ProgramGraph
	nodes []*programgraph.Node
	index map[programgraph.ID]int
}

// NewDense returns the dense view of g
func NewDense(g *programgraph.ProgramGraph) *Dense {
	d := &Dense{g: g, nodes: g.Nodes(), index: map[programgraph.ID]int{}}
	for i, n := range d.nodes {
		d.index[n.ID()] = i
	}
	return d
}

// Order returns the number of vertices
func (d *Dense) Order() int {
	return len(d.nodes)
}

// Visit calls do for each edge out of v. Parallel edges are visited once per occurrence, with cost zero.
func (d *Dense) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	src := d.nodes[v]
	for _, dst := range d.g.SortedSuccessors(src) {
		for k := d.g.Multiplicity(src, dst); k > 0; k-- {
			if do(d.index[dst.ID()], 0) {
				return true
			}
		}
	}
	return false
}

// NodeAt returns the program graph node with dense index i
func (d *Dense) NodeAt(i int) *programgraph.Node {
	return d.nodes[i]
}

// Stats summarizes the shape of a program graph
type Stats struct {
	Nodes      int `yaml:"nodes"`
	Edges      int `yaml:"distinct-edges"`
	Multi      int `yaml:"parallel-edges"`
	SelfLoops  int `yaml:"self-loops"`
	Sinks      int `yaml:"sinks"`
	Components int `yaml:"strong-components"`
	Loops      int `yaml:"loop-regions"`
}

// ComputeStats returns the statistics of g
func ComputeStats(g *programgraph.ProgramGraph) Stats {
	d := NewDense(g)
	check := graph.Check(d)
	return Stats{
		Nodes:      d.Order(),
		Edges:      check.Size,
		Multi:      check.Multi,
		SelfLoops:  check.Loops,
		Sinks:      check.Isolated,
		Components: len(graph.StrongComponents(d)),
		Loops:      len(LoopRegions(g)),
	}
}
