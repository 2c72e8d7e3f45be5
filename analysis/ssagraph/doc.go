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

// Package ssagraph builds the control-flow graphs analysed by the slicer from Go functions in SSA form.
//
// Functions must be built in naive form (ssa.NaiveForm): every local variable lives in a stack slot allocated by
// an Alloc instruction, every assignment is a Store and every read is a load. This keeps the correspondence
// between source-level variables and instructions that slicing criteria are expressed with.
//
// The graph has one node per instruction, in block order, and a line marker node at the beginning of every run
// of instructions sharing a source line in a block. A synthetic Entry node precedes the nodes without
// predecessors, and a synthetic Exit node follows the nodes without successors.
package ssagraph
