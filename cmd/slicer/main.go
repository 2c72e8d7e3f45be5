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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-go-slicer/analysis"
	"github.com/awslabs/ar-go-slicer/cmd/slicer/graph"
	"github.com/awslabs/ar-go-slicer/cmd/slicer/slice"
	"github.com/awslabs/ar-go-slicer/cmd/slicer/tools"
	"github.com/awslabs/ar-go-slicer/internal/formatutil"
)

const usage = `Slicer: static backward slicing of Go functions
Usage:
  slicer [tool] [options] <Go package or file path(s)>
Tools:
  - slice: computes the backward slice of a variable written on a line of a function
  - graph: prints the control-flow, post-dominator, control-dependence, data-dependence or
    program-dependence graph of a function in dot format
Examples:
  Slice a function: slicer slice -func gcd -line 12 -var a -format source gcd.go
  Solve the slicing problems of a config: slicer slice -config config.yaml ./...`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "slice":
		flags, err := slice.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := slice.Run(flags); err != nil {
			errExit(err)
		}
	case "graph":
		flags, err := graph.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := graph.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", formatutil.Red("error:"), err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", formatutil.Yellow("Hint:"), hint)
	}
	os.Exit(2)
}
