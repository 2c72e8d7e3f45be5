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

/*
Package programgraph implements the directed multigraph shared by every stage of the slicer.

A [ProgramGraph] holds analysis [Node]s and directed edges. The control-flow graph produced by a front-end
and every artifact derived from it (post-dominator tree, control-dependence graph, data-dependence graph,
program-dependence graph) are ProgramGraph values. A derived graph is always a new value; no analysis
mutates the graph it reads.

Node identities are allocated by an [IDAllocator] owned by a single graph-construction session. Two
sessions never share an allocator, so identities of concurrently analyzed procedures cannot collide.
Graphs, sets and maps key nodes by identity only.

Iteration over nodes always happens in increasing identity order so that the results of the analyses
do not depend on map iteration order.
*/
package programgraph
