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

// Package postdom computes post-dominance information over control-flow graphs: the complete post-dominator
// sets of every node, and the post-dominator tree of immediate post-dominators.
//
// The dominator sets are computed with the classical iterative dataflow over the reversed control-flow graph,
// and the tree is assembled by peeling the sets from the root (the exit of the control-flow graph) outwards.
// VerifyTree cross-checks the result against the Lengauer-Tarjan algorithm of the gonum library.
package postdom
