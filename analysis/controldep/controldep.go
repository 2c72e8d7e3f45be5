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

// Package controldep computes control-dependence graphs from control-flow graphs and their post-dominator trees.
//
// A node m is control dependent on a node n when n has a successor from which every path to the exit goes
// through m, but n itself is not post-dominated by m: the outcome of n decides whether m runs.
package controldep

import (
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/postdom"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// Compute returns the control-dependence graph of cfg. The result has the nodes of cfg, and an edge n -> d for
// every node d control dependent on n. Loop headers whose body leads back to them are dependent on themselves.
func Compute(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	pdt, err := postdom.ComputeTree(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute post-dominator tree: %w", err)
	}
	return FromTree(cfg, pdt)
}

// FromTree returns the control-dependence graph of cfg given its post-dominator tree pdt.
func FromTree(cfg *programgraph.ProgramGraph, pdt *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	cdg := programgraph.WithNodes(cfg)
	for _, n := range cfg.Nodes() {
		for _, s := range cfg.SortedSuccessors(n) {
			// s post-dominates n: the branch does not decide anything
			if pdt.TransitiveSuccessors(s).Contains(n) {
				continue
			}
			dependents, err := dependentsOf(pdt, n, s)
			if err != nil {
				return nil, fmt.Errorf("edge %s -> %s: %w", n, s, err)
			}
			for _, d := range dependents {
				if !cdg.HasEdge(n, d) {
					cdg.AddEdge(n, d)
				}
			}
		}
	}
	return cdg, nil
}

// dependentsOf returns the nodes on the tree path from s up to the least common ancestor of n and s, excluding
// the ancestor unless it is n itself.
func dependentsOf(pdt *programgraph.ProgramGraph, n, s *programgraph.Node) ([]*programgraph.Node, error) {
	lca, err := pdt.LeastCommonAncestor(n, s)
	if err != nil {
		return nil, err
	}
	var dependents []*programgraph.Node
	for cur := s; !cur.Equal(lca); {
		dependents = append(dependents, cur)
		cur, err = pdt.Parent(cur)
		if err != nil {
			return nil, err
		}
	}
	if lca.Equal(n) {
		dependents = append(dependents, n)
	}
	return dependents, nil
}

// Analysis computes control-dependence graphs. It implements programgraph.Analysis.
type Analysis struct {
	// PostDominance computes the post-dominator tree the dependences are derived from
	PostDominance postdom.Analysis
}

// ComputeResult returns the control-dependence graph of cfg
func (a Analysis) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	pdt, err := a.PostDominance.ComputeResult(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute post-dominator tree: %w", err)
	}
	return FromTree(cfg, pdt)
}
