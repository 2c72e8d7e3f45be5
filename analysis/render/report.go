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

package render

import (
	"encoding/xml"
	"io"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/slicing"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"github.com/awslabs/ar-go-slicer/internal/graphutil"
	"gopkg.in/yaml.v3"
)

// Line is an instruction of a slice in a report
type Line struct {
	Nr          int    `xml:"nr,attr" yaml:"nr"`
	ID          int64  `xml:"id,attr" yaml:"id"`
	Instruction string `xml:"instruction,attr" yaml:"instruction"`
}

func lineOf(n *programgraph.Node) Line {
	return Line{Nr: n.Line(), ID: int64(n.ID()), Instruction: ssagraph.Format(n)}
}

type xmlReport struct {
	XMLName xml.Name `xml:"report"`
	Lines   []Line   `xml:"line"`
}

// XML prints the nodes as a report of the form
//
//	<report>
//	  <line nr="12" id="7" instruction="*t0 = t3"></line>
//	</report>
func XML(w io.Writer, nodes []*programgraph.Node) error {
	report := xmlReport{}
	for _, n := range nodes {
		report.Lines = append(report.Lines, lineOf(n))
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Report is the structured description of a slice
type Report struct {
	Function  string `yaml:"function"`
	Criterion Line   `yaml:"criterion"`
	Lines     []Line `yaml:"lines"`
	// Size is the number of nodes of the control-flow graph
	Size int `yaml:"cfg-nodes"`
	// Dependences describes the program-dependence graph
	Dependences graphutil.Stats `yaml:"dependences"`
}

// NewReport returns the report of the slice res computed on proc
func NewReport(proc *ssagraph.Procedure, res *slicing.Result) Report {
	report := Report{
		Function:    proc.Function.String(),
		Criterion:   lineOf(res.Criterion),
		Size:        res.CFG.Len(),
		Dependences: graphutil.ComputeStats(res.PDG),
	}
	for _, n := range SortByLine(res.Slice) {
		report.Lines = append(report.Lines, lineOf(n))
	}
	return report
}

// YAML prints the report in YAML
func YAML(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
