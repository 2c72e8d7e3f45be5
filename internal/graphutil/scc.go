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
	"golang.org/x/exp/slices"
)

// LoopRegions returns the cyclic strongly connected components of g: components with more than one node, and
// single nodes carrying a self-loop. Nodes inside a region are sorted by id, and regions are sorted by their
// smallest id.
//
// The implementation is Tarjan's algorithm, visiting roots and successors in increasing id order so that the
// result does not depend on insertion order.
func LoopRegions(g *programgraph.ProgramGraph) [][]*programgraph.Node {
	var regions [][]*programgraph.Node
	for _, scc := range stronglyConnected(g) {
		if len(scc) > 1 || g.HasEdge(scc[0], scc[0]) {
			regions = append(regions, scc)
		}
	}
	slices.SortFunc(regions, func(a, b []*programgraph.Node) bool {
		return a[0].ID() < b[0].ID()
	})
	return regions
}

// stronglyConnected returns all the strongly connected components of g, successors first.
func stronglyConnected(g *programgraph.ProgramGraph) [][]*programgraph.Node {
	var stack []*programgraph.Node
	onStack := map[programgraph.ID]bool{}
	index := map[programgraph.ID]int{}
	lowlink := map[programgraph.ID]int{}
	nextIndex := 0
	var sccs [][]*programgraph.Node

	var visit func(v *programgraph.Node)
	visit = func(v *programgraph.Node) {
		index[v.ID()] = nextIndex
		lowlink[v.ID()] = nextIndex
		stack = append(stack, v)
		onStack[v.ID()] = true
		nextIndex++
		for _, w := range g.SortedSuccessors(v) {
			if _, visited := index[w.ID()]; !visited {
				visit(w)
				if lowlink[w.ID()] < lowlink[v.ID()] {
					lowlink[v.ID()] = lowlink[w.ID()]
				}
			} else if onStack[w.ID()] && index[w.ID()] < lowlink[v.ID()] {
				lowlink[v.ID()] = index[w.ID()]
			}
		}
		if lowlink[v.ID()] != index[v.ID()] {
			return
		}
		var scc []*programgraph.Node
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w.ID()] = false
			scc = append(scc, w)
			if w.ID() == v.ID() {
				break
			}
		}
		slices.SortFunc(scc, func(a, b *programgraph.Node) bool { return a.ID() < b.ID() })
		sccs = append(sccs, scc)
	}
	for _, v := range g.Nodes() {
		if _, visited := index[v.ID()]; !visited {
			visit(v)
		}
	}
	return sccs
}
