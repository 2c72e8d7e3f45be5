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

// Package slicing computes program-dependence graphs and backward slices of single procedures.
//
// The program-dependence graph (PDG) of a procedure has the nodes of its control-flow graph, and an edge from every
// node to each node it influences, either because it decides whether the other node runs (control dependence, see
// package controldep) or because it defines a variable the other node uses (data dependence, see package
// reachingdefs). The backward slice of a node c is the set of nodes that transitively influence c, together with c.
//
// A Slicer runs the whole pipeline for one slicing request:
//
//	CFG -> post-dominator tree -> control dependence -> data dependence -> PDG -> slice
//
// Each stage runs exactly once and fully builds its graph before the next one starts. The first error aborts the
// request: there are no partial slices.
package slicing
