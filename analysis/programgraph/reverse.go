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

// Reverse returns a new graph with every edge of g reversed. When g has a unique entry node, that node is not
// a source of any reversed edge and is only present in the result as the target of reversed edges, if any.
// Otherwise all the nodes of g are kept.
func Reverse(g *ProgramGraph) *ProgramGraph {
	r := New()
	entry, err := g.Entry()
	if err != nil {
		// No unique entry: nodes without incoming edges are not sources of reversed edges anyway
		entry = nil
	}
	for _, n := range g.Nodes() {
		if n.Equal(entry) {
			continue
		}
		r.AddNode(n)
		for _, p := range g.SortedPredecessors(n) {
			for i := g.Multiplicity(p, n); i > 0; i-- {
				r.AddEdge(n, p)
			}
		}
	}
	return r
}

// Copy returns a new graph with the same nodes and edges as g
func Copy(g *ProgramGraph) *ProgramGraph {
	c := New()
	for _, n := range g.Nodes() {
		c.AddNode(n)
	}
	for _, e := range g.Edges() {
		for i := 0; i < e.Count; i++ {
			c.AddEdge(e.From, e.To)
		}
	}
	return c
}

// WithNodes returns a new graph that has the nodes of g and no edges
func WithNodes(g *ProgramGraph) *ProgramGraph {
	c := New()
	for _, n := range g.Nodes() {
		c.AddNode(n)
	}
	return c
}
