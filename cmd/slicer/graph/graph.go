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

// Package graph implements the graph sub-command: it prints one of the graphs the slicer computes for a function
// in the GraphViz dot format.
package graph

import (
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-go-slicer/analysis"
	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/render"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"github.com/awslabs/ar-go-slicer/cmd/slicer/tools"
	"github.com/awslabs/ar-go-slicer/internal/formatutil"
	"github.com/awslabs/ar-go-slicer/internal/graphutil"
)

// Usage is the usage of the graph sub-command
const Usage = `Print a graph of a function in dot format.
Usage:
  slicer graph [options] -func name -kind cfg|pdt|cdg|ddg|pdg <package or files>
Examples:
  % slicer graph -func gcd -kind pdt -target gcd.dot ./examples/gcd.go
  % dot -Tsvg gcd.dot > gcd.svg`

// Flags represents the parsed graph sub-command flags.
type Flags struct {
	tools.CommonFlags
	Kind   analysis.GraphKind
	Target string
}

// NewFlags returns the parsed graph sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("graph")
	kind := flags.FlagSet.String("kind", string(analysis.CFG),
		fmt.Sprintf("kind of graph, one of %v", analysis.GraphKinds))
	target := flags.FlagSet.String("target", "", "output file (standard output if not specified)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	if common.Function == "" {
		return Flags{}, fmt.Errorf("graph requires a function (-func)")
	}
	return Flags{CommonFlags: common, Kind: analysis.GraphKind(*kind), Target: *target}, nil
}

// Run runs the graph sub-command with flags.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, stdout io.Writer) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("Reading sources"))
	loaded, err := tools.LoadProgram(flags.CommonFlags)
	if err != nil {
		return err
	}
	fn, err := ssagraph.FindFunction(loaded.Program, flags.Function)
	if err != nil {
		return err
	}
	_, g, err := analysis.ComputeGraph(cfg, fn, flags.Kind)
	if err != nil {
		return err
	}
	if logger.LogsDebug() {
		logger.Debugf("%s of %s: %+v", flags.Kind, fn, graphutil.ComputeStats(g))
		for _, region := range graphutil.LoopRegions(g) {
			logger.Debugf("loop region %v", region)
		}
	}
	write := func(w io.Writer) error {
		return render.Dot(w, fn.Name(), g)
	}
	if flags.Target == "" {
		return write(stdout)
	}
	if err := render.ToFile(flags.Target, write); err != nil {
		return err
	}
	logger.Infof("%s of %s written to %s", flags.Kind, formatutil.Green(fn.String()), flags.Target)
	return nil
}
