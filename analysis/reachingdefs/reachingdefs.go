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

// Package reachingdefs computes data-dependence graphs: an edge d -> u when a definition in d of some variable
// may reach a use of that variable in u.
//
// Candidate definitions of a use are the nodes defining the variable among the nodes that can reach the use.
// When there are several candidates, a candidate d1 is discarded when another candidate d2 is on a path from
// d1 to the use and the source lines of d1, d2 and the use are strictly increasing: d2 shadows d1. This line
// based approximation replaces the kill sets of the classical dataflow formulation.
package reachingdefs

import (
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/defuse"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// Compute returns the data-dependence graph of cfg, with the uses and definitions of each node given by
// oracle. The result has the nodes of cfg. The first error returned by the oracle aborts the computation.
func Compute(cfg *programgraph.ProgramGraph, oracle defuse.Oracle) (*programgraph.ProgramGraph, error) {
	entry, err := cfg.Entry()
	if err != nil {
		return nil, err
	}
	exit, err := cfg.Exit()
	if err != nil {
		return nil, err
	}
	e := &engine{
		cfg:        cfg,
		reversed:   programgraph.Reverse(cfg),
		oracle:     defuse.NewCached(oracle),
		entry:      entry,
		successors: map[programgraph.ID]programgraph.NodeSet{},
	}

	ddg := programgraph.WithNodes(cfg)
	for _, use := range cfg.Nodes() {
		if use.Equal(entry) || use.Equal(exit) {
			continue
		}
		du, err := e.oracle.DefUse(use)
		if err != nil {
			return nil, fmt.Errorf("failed to get uses of %s: %w", use, err)
		}
		if len(du.Uses) == 0 {
			continue
		}
		predecessors := e.reversed.TransitiveSuccessors(use).Sorted()
		for _, v := range du.Uses.Sorted() {
			candidates, err := e.definitionsOf(v, predecessors)
			if err != nil {
				return nil, err
			}
			for _, def := range e.reaching(candidates, use) {
				if !ddg.HasEdge(def, use) {
					ddg.AddEdge(def, use)
				}
			}
		}
	}
	return ddg, nil
}

type engine struct {
	cfg      *programgraph.ProgramGraph
	reversed *programgraph.ProgramGraph
	oracle   *defuse.Cached
	entry    *programgraph.Node

	// successors memoizes the transitive successors of nodes in the control-flow graph, including the node
	successors map[programgraph.ID]programgraph.NodeSet
}

// definitionsOf returns the nodes in predecessors that define v
func (e *engine) definitionsOf(v defuse.Variable, predecessors []*programgraph.Node) ([]*programgraph.Node, error) {
	var defs []*programgraph.Node
	for _, p := range predecessors {
		if p.Equal(e.entry) {
			continue
		}
		du, err := e.oracle.DefUse(p)
		if err != nil {
			return nil, fmt.Errorf("failed to get definitions of %s: %w", p, err)
		}
		if du.Defs.Contains(v) {
			defs = append(defs, p)
		}
	}
	return defs, nil
}

// reaching returns the candidates that are not shadowed by another candidate
func (e *engine) reaching(candidates []*programgraph.Node, use *programgraph.Node) []*programgraph.Node {
	if len(candidates) <= 1 {
		return candidates
	}
	var survivors []*programgraph.Node
	for _, d1 := range candidates {
		shadowed := false
		for _, d2 := range candidates {
			if !d1.Equal(d2) && e.shadows(d2, d1, use) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			survivors = append(survivors, d1)
		}
	}
	return survivors
}

// shadows returns true if later lies between earlier and use: both are reachable from earlier, and the lines
// of earlier, later and use are strictly increasing.
func (e *engine) shadows(later, earlier, use *programgraph.Node) bool {
	if !(earlier.Line() < later.Line() && later.Line() < use.Line()) {
		return false
	}
	reach := e.reachableFrom(earlier)
	return reach.Contains(later) && reach.Contains(use)
}

func (e *engine) reachableFrom(n *programgraph.Node) programgraph.NodeSet {
	if s, ok := e.successors[n.ID()]; ok {
		return s
	}
	s := e.cfg.TransitiveSuccessors(n)
	s.Add(n)
	e.successors[n.ID()] = s
	return s
}

// Analysis computes data-dependence graphs. It implements programgraph.Analysis.
type Analysis struct {
	Oracle defuse.Oracle
}

// ComputeResult returns the data-dependence graph of cfg
func (a Analysis) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	if a.Oracle == nil {
		return nil, fmt.Errorf("data-dependence analysis requires a def-use oracle")
	}
	return Compute(cfg, a.Oracle)
}
