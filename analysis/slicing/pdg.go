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
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/controldep"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// ComputePDG returns the union of the control-dependence graph cdg and the data-dependence graph ddg. The
// result has the nodes of both graphs. An edge that is in both graphs appears once.
func ComputePDG(cdg *programgraph.ProgramGraph, ddg *programgraph.ProgramGraph) *programgraph.ProgramGraph {
	pdg := programgraph.WithNodes(cdg)
	for _, n := range ddg.Nodes() {
		pdg.AddNode(n)
	}
	for _, g := range []*programgraph.ProgramGraph{cdg, ddg} {
		for _, e := range g.Edges() {
			if !pdg.HasEdge(e.From, e.To) {
				pdg.AddEdge(e.From, e.To)
			}
		}
	}
	return pdg
}

// PDG computes program-dependence graphs. It implements programgraph.Analysis.
type PDG struct {
	// Control computes the control dependences, usually a controldep.Analysis
	Control programgraph.Analysis
	// Data computes the data dependences, usually a reachingdefs.Analysis
	Data programgraph.Analysis
}

// ComputeResult returns the program-dependence graph of cfg
func (a PDG) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	control := a.Control
	if control == nil {
		control = controldep.Analysis{}
	}
	if a.Data == nil {
		return nil, fmt.Errorf("program-dependence analysis requires a data-dependence analysis")
	}
	cdg, err := control.ComputeResult(cfg)
	if err != nil {
		return nil, fmt.Errorf("control dependence: %w", err)
	}
	ddg, err := a.Data.ComputeResult(cfg)
	if err != nil {
		return nil, fmt.Errorf("data dependence: %w", err)
	}
	return ComputePDG(cdg, ddg), nil
}

// BackwardSlice returns the nodes of pdg that transitively influence c, and c itself.
// pdg is not modified.
func BackwardSlice(pdg *programgraph.ProgramGraph, c *programgraph.Node) programgraph.NodeSet {
	slice := programgraph.Reverse(pdg).TransitiveSuccessors(c)
	slice.Add(c)
	return slice
}
