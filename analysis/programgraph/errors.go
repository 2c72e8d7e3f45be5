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

package programgraph

import "errors"

var (
	// ErrGraphInvariant is returned when a graph does not satisfy a structural invariant required by an operation,
	// e.g. a unique entry or exit node, or when a fixed-point computation does not converge within its bound.
	// This indicates a malformed graph upstream.
	ErrGraphInvariant = errors.New("graph invariant violation")

	// ErrUnresolvedAncestor is returned when a least common ancestor is requested on a graph that is not a tree,
	// or for nodes that have no common ancestor.
	ErrUnresolvedAncestor = errors.New("unresolved ancestor")
)

// Analysis is implemented by every graph derivation that consumes an already-built control-flow graph and
// produces a new graph
type Analysis interface {
	// ComputeResult returns a new graph computed from cfg. cfg is not modified.
	ComputeResult(cfg *ProgramGraph) (*ProgramGraph, error)
}

// FixpointBound returns the maximum number of passes a fixed-point computation over a graph with numNodes nodes
// is allowed to make. Monotone computations over subsets of the node set converge in at most numNodes*numNodes
// passes; the factor gives additional slack.
func FixpointBound(numNodes int, factor int) int {
	if factor <= 0 {
		factor = 1
	}
	return factor*(numNodes*numNodes+1) + 1
}
