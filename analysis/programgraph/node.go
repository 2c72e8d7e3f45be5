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

import (
	"fmt"
	"strconv"
)

// UnknownLine is the line number of nodes that have no source position, e.g. synthetic nodes
const UnknownLine = -1

// ID is the identity of a node. IDs are allocated by an IDAllocator and never reused by that allocator.
type ID int64

// Instruction is the opaque handle to the instruction a node stands for. The handle is owned by the front-end
// that built the graph; the analyses only print it.
type Instruction interface {
	String() string
}

// Node is a vertex of a ProgramGraph. Two nodes are the same node iff they have the same ID.
type Node struct {
	id    ID
	instr Instruction
	line  int
	label string
}

// ID returns the identity of the node
func (n *Node) ID() ID {
	return n.id
}

// Instr returns the instruction of the node, or nil for synthetic nodes
func (n *Node) Instr() Instruction {
	return n.instr
}

// Line returns the source line of the node, or UnknownLine
func (n *Node) Line() int {
	return n.line
}

// Label returns the label of a synthetic node. Instruction nodes have an empty label.
func (n *Node) Label() string {
	return n.label
}

// IsSynthetic returns true if the node has no instruction (e.g. "Entry" and "Exit")
func (n *Node) IsSynthetic() bool {
	return n.instr == nil
}

// Equal returns true when both nodes have the same identity
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.id == other.id
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.instr == nil {
		return strconv.Quote(n.label)
	}
	return fmt.Sprintf("%q", fmt.Sprintf("%s#%d  line number: %d", n.instr.String(), n.id, n.line))
}

// IDAllocator hands out node identities for one graph-construction session.
// An IDAllocator is not safe for concurrent use; concurrent sessions must each use their own allocator.
type IDAllocator struct {
	next ID
}

// NewIDAllocator returns an allocator whose first identity is 1
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

func (a *IDAllocator) fresh() ID {
	if a.next <= 0 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// NewNode returns a node for the instruction at the given source line with a fresh identity
func (a *IDAllocator) NewNode(instr Instruction, line int) *Node {
	return &Node{id: a.fresh(), instr: instr, line: line}
}

// NewSyntheticNode returns a node without instruction, identified by its label for humans and by a fresh
// identity for the analyses.
func (a *IDAllocator) NewSyntheticNode(label string) *Node {
	return &Node{id: a.fresh(), label: label, line: UnknownLine}
}

// Allocated returns the number of identities handed out so far
func (a *IDAllocator) Allocated() int {
	if a.next <= 0 {
		return 0
	}
	return int(a.next - 1)
}
