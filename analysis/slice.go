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

package analysis

import (
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/controldep"
	"github.com/awslabs/ar-go-slicer/analysis/postdom"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/reachingdefs"
	"github.com/awslabs/ar-go-slicer/analysis/slicing"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"golang.org/x/tools/go/ssa"
)

// SlicedProcedure is a procedure and the slice computed on its control-flow graph
type SlicedProcedure struct {
	Procedure *ssagraph.Procedure
	*slicing.Result
}

// SliceProcedure computes the slice of proc for the write to variable at line
func SliceProcedure(slicer *slicing.Slicer, proc *ssagraph.Procedure, line int, variable string) (SlicedProcedure,
	error) {
	res, err := slicer.Slice(slicing.Request{
		CFG:      proc.CFG,
		Oracle:   ssagraph.NewOracle(proc),
		Probe:    proc,
		Line:     line,
		Variable: variable,
	})
	if err != nil {
		return SlicedProcedure{}, fmt.Errorf("while slicing %s: %w", proc.Function, err)
	}
	return SlicedProcedure{Procedure: proc, Result: res}, nil
}

// SliceFunction builds the control-flow graph of fn and computes the slice for the write to variable at line
func SliceFunction(slicer *slicing.Slicer, fn *ssa.Function, line int, variable string) (SlicedProcedure, error) {
	slicer.Logger.Debugf("Building control-flow graph of %s", fn)
	proc, err := ssagraph.Build(fn)
	if err != nil {
		return SlicedProcedure{}, err
	}
	if slicer.Logger.LogsTrace() {
		slicer.Logger.Tracef("Local variables of %s:\n%s", fn, proc.Locals)
	}
	return SliceProcedure(slicer, proc, line, variable)
}

// SliceProblem finds the function of the slicing problem in prog and slices it
func SliceProblem(slicer *slicing.Slicer, prog *ssa.Program, problem config.SlicingProblem) (SlicedProcedure,
	error) {
	fn, err := ssagraph.MatchFunction(prog, problem.Function)
	if err != nil {
		return SlicedProcedure{}, err
	}
	return SliceFunction(slicer, fn, problem.Line, problem.Variable)
}

// GraphKind is a kind of graph computed from a control-flow graph
type GraphKind string

const (
	// CFG is the control-flow graph
	CFG GraphKind = "cfg"
	// PDT is the post-dominator tree
	PDT GraphKind = "pdt"
	// CDG is the control-dependence graph
	CDG GraphKind = "cdg"
	// DDG is the data-dependence graph
	DDG GraphKind = "ddg"
	// PDG is the program-dependence graph
	PDG GraphKind = "pdg"
)

// GraphKinds lists the kinds of graphs ComputeGraph can compute
var GraphKinds = []GraphKind{CFG, PDT, CDG, DDG, PDG}

// GraphAnalysis returns the analysis computing graphs of kind on the control-flow graph of proc
func GraphAnalysis(c *config.Config, proc *ssagraph.Procedure, kind GraphKind) (programgraph.Analysis, error) {
	pdt := postdom.Analysis{BoundFactor: c.FixpointBoundFactor, Verify: c.VerifyDominators}
	ddg := reachingdefs.Analysis{Oracle: ssagraph.NewOracle(proc)}
	switch kind {
	case CFG:
		return identity{}, nil
	case PDT:
		return pdt, nil
	case CDG:
		return controldep.Analysis{PostDominance: pdt}, nil
	case DDG:
		return ddg, nil
	case PDG:
		return slicing.PDG{Control: controldep.Analysis{PostDominance: pdt}, Data: ddg}, nil
	}
	return nil, fmt.Errorf("unknown graph kind %q, expected one of %v", kind, GraphKinds)
}

// ComputeGraph returns the graph of the given kind of the function fn
func ComputeGraph(c *config.Config, fn *ssa.Function, kind GraphKind) (*ssagraph.Procedure,
	*programgraph.ProgramGraph, error) {
	proc, err := ssagraph.Build(fn)
	if err != nil {
		return nil, nil, err
	}
	a, err := GraphAnalysis(c, proc, kind)
	if err != nil {
		return nil, nil, err
	}
	g, err := a.ComputeResult(proc.CFG)
	if err != nil {
		return nil, nil, fmt.Errorf("while computing the %s of %s: %w", kind, fn, err)
	}
	return proc, g, nil
}

type identity struct{}

func (identity) ComputeResult(cfg *programgraph.ProgramGraph) (*programgraph.ProgramGraph, error) {
	return programgraph.Copy(cfg), nil
}
