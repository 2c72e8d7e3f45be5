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

package postdom

import (
	"fmt"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/internal/graphutil"
	"gonum.org/v1/gonum/graph/flow"
)

// VerifyTree checks that tree is the post-dominator tree of cfg by comparing every immediate post-dominator
// with the ones computed by gonum's Lengauer-Tarjan implementation on the reversed graph.
// Returns an error wrapping programgraph.ErrGraphInvariant on the first mismatch.
func VerifyTree(cfg *programgraph.ProgramGraph, tree *programgraph.ProgramGraph) error {
	reversed := graphutil.NewGonum(programgraph.Reverse(cfg))
	root, err := reversed.Graph.Entry()
	if err != nil {
		return fmt.Errorf("reversed control-flow graph has no root: %w", err)
	}
	dt := flow.Dominators(reversed.Node(int64(root.ID())), reversed)

	for _, n := range reversed.Graph.Nodes() {
		idom := dt.DominatorOf(int64(n.ID()))
		inTree := tree.Contains(n)
		switch {
		case n.ID() == root.ID():
			if !inTree || !tree.Predecessors(n).IsEmpty() {
				return fmt.Errorf("exit %v is not the root of the tree: %w", n, programgraph.ErrGraphInvariant)
			}
		case idom == nil:
			if inTree {
				return fmt.Errorf("%v cannot reach the exit but is in the tree: %w", n, programgraph.ErrGraphInvariant)
			}
		default:
			parent, err := tree.Parent(n)
			if err != nil {
				return fmt.Errorf("%v has no parent in the tree: %w", n, programgraph.ErrGraphInvariant)
			}
			if int64(parent.ID()) != idom.ID() {
				return fmt.Errorf("immediate post-dominator of %v is %v in the tree but %d expected: %w",
					n, parent, idom.ID(), programgraph.ErrGraphInvariant)
			}
		}
	}
	return nil
}
