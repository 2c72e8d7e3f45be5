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

// Package slice implements the slice sub-command: it computes the backward slice of a variable written on a line
// of a function, and prints it.
package slice

import (
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-go-slicer/analysis"
	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/render"
	"github.com/awslabs/ar-go-slicer/analysis/slicing"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"github.com/awslabs/ar-go-slicer/cmd/slicer/tools"
	"github.com/awslabs/ar-go-slicer/internal/formatutil"
)

// Usage is the usage of the slice sub-command
const Usage = `Compute the backward slice of a variable in a function.
Usage:
  slicer slice [options] -func name -line N -var v <package or files>
  slicer slice -config config.yaml <package or files>
Without -func, the slicing problems of the config file are solved in order.
Examples:
  % slicer slice -func gcd -line 12 -var a -format source ./examples/gcd.go
  % slicer slice -func "(*Calculator).Add:func(int)" -line 20 -var result -format xml ./calc`

// Flags represents the parsed slice sub-command flags.
type Flags struct {
	tools.CommonFlags
	Line       int
	Variable   string
	Format     string
	SourceFile string
	Target     string
}

// NewFlags returns the parsed slice sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("slice")
	line := flags.FlagSet.Int("line", 0, "source line of the slicing criterion")
	variable := flags.FlagSet.String("var", "", "variable or field written at the slicing criterion")
	format := flags.FlagSet.String("format", "", fmt.Sprintf("output format, one of %v", config.Formats))
	sourceFile := flags.FlagSet.String("source", "",
		"source file the lines of the slice are read from; implies -format source")
	target := flags.FlagSet.String("target", "", "output file (standard output if not specified)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	res := Flags{
		CommonFlags: common,
		Line:        *line,
		Variable:    *variable,
		Format:      *format,
		SourceFile:  *sourceFile,
		Target:      *target,
	}
	if res.SourceFile != "" && res.Format == "" {
		res.Format = config.FormatSource
	}
	if res.Format != "" && !config.IsValidFormat(res.Format) {
		return Flags{}, fmt.Errorf("unknown output format %q, expected one of %v", res.Format, config.Formats)
	}
	return res, nil
}

// task is a slicing problem and where to print its slice
type task struct {
	problem config.SlicingProblem
	format  string
	target  string
}

// Run runs the slice sub-command with flags. The slices are written to the standard output unless a target file
// is given.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, stdout io.Writer) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	tasks, err := tasksOf(flags, cfg)
	if err != nil {
		return err
	}

	logger.Infof("%s", formatutil.Faint("Slicer - "+analysis.Version))
	logger.Infof("%s", formatutil.Faint("Reading sources"))
	loaded, err := tools.LoadProgram(flags.CommonFlags)
	if err != nil {
		return err
	}

	slicer := slicing.NewSlicer(cfg, logger)
	for _, t := range tasks {
		var sliced analysis.SlicedProcedure
		if flags.Function != "" {
			fn, err := ssagraph.FindFunction(loaded.Program, flags.Function)
			if err != nil {
				return err
			}
			sliced, err = analysis.SliceFunction(slicer, fn, t.problem.Line, t.problem.Variable)
			if err != nil {
				return err
			}
		} else {
			sliced, err = analysis.SliceProblem(slicer, loaded.Program, t.problem)
			if err != nil {
				return err
			}
		}
		write := func(w io.Writer) error {
			return render.Slice(w, t.format, sliced.Procedure, sliced.Result, flags.SourceFile)
		}
		if t.target == "" {
			if err := write(stdout); err != nil {
				return err
			}
			continue
		}
		if err := render.ToFile(t.target, write); err != nil {
			return err
		}
		logger.Infof("Slice of %s written to %s", formatutil.Green(t.problem.Variable), t.target)
	}
	return nil
}

// tasksOf returns the slicing problem of the command line, or the problems of the config if no function is given
func tasksOf(flags Flags, cfg *config.Config) ([]task, error) {
	if flags.Function != "" {
		if flags.Line <= 0 || flags.Variable == "" {
			return nil, fmt.Errorf("-func requires a positive -line and a -var")
		}
		format := flags.Format
		if format == "" {
			format = cfg.OutputFormat
		}
		p := config.SlicingProblem{Line: flags.Line, Variable: flags.Variable}
		return []task{{problem: p, format: format, target: flags.Target}}, nil
	}
	if len(cfg.SlicingProblems) == 0 {
		return nil, fmt.Errorf("nothing to slice: use -func, -line and -var, or list slicing-problems in the config")
	}
	var tasks []task
	for _, p := range cfg.SlicingProblems {
		format := cfg.FormatOf(p)
		if flags.Format != "" {
			format = flags.Format
		}
		tasks = append(tasks, task{problem: p, format: format, target: cfg.TargetOf(p)})
	}
	return tasks, nil
}
