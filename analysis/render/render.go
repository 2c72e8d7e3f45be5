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

// Package render prints slices and program graphs.
//
// Slices are printed in source-line order as raw instructions (Instructions), as source lines (SourceLines), or
// as XML and YAML reports for grading tools. Any program graph can be printed in the GraphViz format (Dot).
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/slicing"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"golang.org/x/exp/slices"
)

// SortByLine returns the instruction nodes of s sorted by source line, then by identity. Synthetic nodes and line
// markers are skipped.
func SortByLine(s programgraph.NodeSet) []*programgraph.Node {
	var nodes []*programgraph.Node
	for _, n := range s {
		if n.IsSynthetic() {
			continue
		}
		if _, ok := n.Instr().(ssagraph.LineMarker); ok {
			continue
		}
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *programgraph.Node) bool {
		if a.Line() != b.Line() {
			return a.Line() < b.Line()
		}
		return a.ID() < b.ID()
	})
	return nodes
}

// Instructions prints one line per node: its source line, its identity and its instruction
func Instructions(w io.Writer, nodes []*programgraph.Node) error {
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "(line: %4d, id: %4d)  %s\n", n.Line(), n.ID(), ssagraph.Format(n)); err != nil {
			return err
		}
	}
	return nil
}

// Slice prints the slice of res, computed on proc, in the given format (see config.Formats).
// sourceFile overrides the file the source lines are read from when format is config.FormatSource.
func Slice(w io.Writer, format string, proc *ssagraph.Procedure, res *slicing.Result, sourceFile string) error {
	nodes := SortByLine(res.Slice)
	switch format {
	case config.FormatText, "":
		return Instructions(w, nodes)
	case config.FormatSource:
		return SourceLines(w, proc, nodes, sourceFile)
	case config.FormatXML:
		return XML(w, nodes)
	case config.FormatYAML:
		return YAML(w, NewReport(proc, res))
	}
	return fmt.Errorf("unknown output format %q, expected one of %v", format, config.Formats)
}

// ToFile calls render with a writer to the file filename. Missing directories are created.
func ToFile(filename string, render func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", filename, err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
