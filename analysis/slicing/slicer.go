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
	"time"

	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/controldep"
	"github.com/awslabs/ar-go-slicer/analysis/defuse"
	"github.com/awslabs/ar-go-slicer/analysis/postdom"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/reachingdefs"
	"github.com/awslabs/ar-go-slicer/internal/graphutil"
)

// Stage is the state of a slicing request. A request goes through the stages in order.
type Stage int

const (
	// Unbuilt is the state of a request before its control-flow graph has been checked
	Unbuilt Stage = iota
	// CFGBuilt is the state once the control-flow graph has been checked and the criterion found
	CFGBuilt
	// DominanceComputed is the state once the post-dominator tree is built
	DominanceComputed
	// CDGComputed is the state once the control-dependence graph is built
	CDGComputed
	// DDGComputed is the state once the data-dependence graph is built
	DDGComputed
	// PDGComputed is the state once the program-dependence graph is built
	PDGComputed
	// SliceComputed is the final state
	SliceComputed
)

func (s Stage) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case CFGBuilt:
		return "control-flow graph"
	case DominanceComputed:
		return "post-dominator tree"
	case CDGComputed:
		return "control dependence"
	case DDGComputed:
		return "data dependence"
	case PDGComputed:
		return "program dependence"
	case SliceComputed:
		return "slice"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Request is a slicing request on a single procedure
type Request struct {
	// CFG is the control-flow graph of the procedure, with a unique entry and a unique exit
	CFG *programgraph.ProgramGraph
	// Oracle returns the uses and definitions of the nodes of CFG
	Oracle defuse.Oracle
	// Probe finds the criterion in CFG
	Probe Probe
	// Line and Variable describe the criterion: the write to Variable on source line Line
	Line     int
	Variable string
}

// Result holds the slice computed for a request and the graphs it was computed from.
// All the graphs are owned by the result.
type Result struct {
	Criterion *programgraph.Node
	Slice     programgraph.NodeSet

	CFG *programgraph.ProgramGraph
	PDT *programgraph.ProgramGraph
	CDG *programgraph.ProgramGraph
	DDG *programgraph.ProgramGraph
	PDG *programgraph.ProgramGraph
}

// Graph returns the graph computed at stage s, or nil if s does not produce a graph
func (r *Result) Graph(s Stage) *programgraph.ProgramGraph {
	switch s {
	case CFGBuilt:
		return r.CFG
	case DominanceComputed:
		return r.PDT
	case CDGComputed:
		return r.CDG
	case DDGComputed:
		return r.DDG
	case PDGComputed:
		return r.PDG
	}
	return nil
}

// A Slicer computes backward slices. A Slicer holds no state between requests and can be shared.
type Slicer struct {
	Config *config.Config
	Logger *config.LogGroup
}

// NewSlicer returns a slicer using the options of c and logging to logger.
// If logger is nil, a log group is built from c.
func NewSlicer(c *config.Config, logger *config.LogGroup) *Slicer {
	if c == nil {
		c = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(c)
	}
	return &Slicer{Config: c, Logger: logger}
}

// Slice runs all the stages of req. The first failing stage aborts the request, in which case the result is nil.
func (s *Slicer) Slice(req Request) (*Result, error) {
	if req.CFG == nil {
		return nil, fmt.Errorf("%s: no control-flow graph", Unbuilt)
	}
	if req.Oracle == nil || req.Probe == nil {
		return nil, fmt.Errorf("%s: slicing requires a def-use oracle and a probe", Unbuilt)
	}
	res := &Result{CFG: req.CFG}
	pdt := postdom.Analysis{BoundFactor: s.Config.FixpointBoundFactor, Verify: s.Config.VerifyDominators}

	err := s.stage(CFGBuilt, func() error {
		if _, err := req.CFG.Entry(); err != nil {
			return err
		}
		if _, err := req.CFG.Exit(); err != nil {
			return err
		}
		c, err := ResolveCriterion(req.CFG, req.Probe, req.Line, req.Variable)
		res.Criterion = c
		return err
	}, res)
	if err != nil {
		return nil, err
	}
	if err := s.stage(DominanceComputed, func() (err error) {
		res.PDT, err = pdt.ComputeResult(req.CFG)
		return err
	}, res); err != nil {
		return nil, err
	}
	if err := s.stage(CDGComputed, func() (err error) {
		res.CDG, err = controldep.FromTree(req.CFG, res.PDT)
		return err
	}, res); err != nil {
		return nil, err
	}
	if err := s.stage(DDGComputed, func() (err error) {
		res.DDG, err = reachingdefs.Analysis{Oracle: req.Oracle}.ComputeResult(req.CFG)
		return err
	}, res); err != nil {
		return nil, err
	}
	if err := s.stage(PDGComputed, func() error {
		res.PDG = ComputePDG(res.CDG, res.DDG)
		return nil
	}, res); err != nil {
		return nil, err
	}
	if err := s.stage(SliceComputed, func() error {
		res.Slice = BackwardSlice(res.PDG, res.Criterion)
		return nil
	}, res); err != nil {
		return nil, err
	}
	s.Logger.Infof("Slice of %q at line %d from %s has %d of %d nodes.",
		req.Variable, req.Line, res.Criterion, res.Slice.Len(), req.CFG.Len())
	if s.Logger.LogsTrace() {
		for _, n := range res.Slice.Sorted() {
			s.Logger.Tracef("  %s", n)
		}
	}
	return res, nil
}

// stage runs f, logging its duration and the statistics of the graph it builds
func (s *Slicer) stage(stage Stage, f func() error, res *Result) error {
	start := time.Now()
	s.Logger.Debugf("Computing %s...", stage)
	if err := f(); err != nil {
		s.Logger.Errorf("Failed to compute %s: %v", stage, err)
		return fmt.Errorf("%s: %w", stage, err)
	}
	s.Logger.Infof("%s done (%.2f s).", stage, time.Since(start).Seconds())
	if g := res.Graph(stage); g != nil && s.Logger.LogsDebug() {
		s.Logger.Debugf("%s statistics: %+v", stage, graphutil.ComputeStats(g))
	}
	return nil
}
