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
	"errors"
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

// ErrCriterionNotFound is returned when no node of a control-flow graph matches a slicing criterion
var ErrCriterionNotFound = errors.New("slicing criterion not found")

// A Probe inspects the nodes of a control-flow graph built by a front-end
type Probe interface {
	// LineOf returns the source line of n if n is a line marker
	LineOf(n *programgraph.Node) (int, bool)

	// StoredLocal returns the name of the local variable n writes to, if any
	StoredLocal(n *programgraph.Node) (string, bool)

	// StoredField returns the name of the field n writes to, if any
	StoredField(n *programgraph.Node) (string, bool)
}

// ResolveCriterion returns the node of cfg that writes variable on the given source line.
//
// The line markers of the line are searched in increasing identity order, the first one being the marker of the
// first instructions of the line. From each marker, the nodes up to the next marker are searched in breadth-first
// order for a write to a local variable or a field named variable. The first match is returned.
// If there is none, the error wraps ErrCriterionNotFound.
func ResolveCriterion(cfg *programgraph.ProgramGraph, probe Probe, line int, variable string) (*programgraph.Node,
	error) {
	isMarker := func(n *programgraph.Node) bool {
		_, ok := probe.LineOf(n)
		return ok
	}
	markers := 0
	for _, n := range cfg.Nodes() {
		if l, ok := probe.LineOf(n); !ok || l != line {
			continue
		}
		markers++
		for _, s := range cfg.SuccessorsUntilMarker(n, isMarker) {
			if name, ok := probe.StoredLocal(s); ok && name == variable {
				return s, nil
			}
			if name, ok := probe.StoredField(s); ok && name == variable {
				return s, nil
			}
		}
	}
	if markers == 0 {
		return nil, fmt.Errorf("%w: no instruction on line %d", ErrCriterionNotFound, line)
	}
	return nil, fmt.Errorf("%w: no write to %q on line %d", ErrCriterionNotFound, variable, line)
}
