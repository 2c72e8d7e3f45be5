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
	"io"
	"strconv"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"github.com/awslabs/ar-go-slicer/internal/graphutil"
	"gonum.org/v1/gonum/graph/encoding/dot"
)

// Dot prints g in the GraphViz dot format, as a digraph called name. Parallel edges are printed once per unit of
// multiplicity. Nodes are labelled with their line and instruction.
func Dot(w io.Writer, name string, g *programgraph.ProgramGraph) error {
	gg := graphutil.Gonum{Graph: g, Label: nodeLabel}
	b, err := dot.MarshalMulti(gg, name, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func nodeLabel(n *programgraph.Node) string {
	if n.IsSynthetic() {
		return n.Label()
	}
	if _, ok := n.Instr().(ssagraph.LineMarker); ok {
		return ssagraph.Format(n)
	}
	return ssagraph.Format(n) + " @" + strconv.Itoa(n.Line())
}
