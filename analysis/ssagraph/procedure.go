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

package ssagraph

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"golang.org/x/tools/go/ssa"
)

// ErrMalformedProcedure is returned when no control-flow graph can be built for a function
var ErrMalformedProcedure = errors.New("malformed procedure")

// LineMarker is the instruction of the nodes marking the beginning of a source line
type LineMarker struct {
	Line int
}

func (m LineMarker) String() string {
	return fmt.Sprintf("L%d", m.Line)
}

// Procedure is the control-flow graph of a function, with the information needed to resolve slicing criteria
// and to compute the uses and definitions of its nodes.
type Procedure struct {
	// Function is the function the graph has been built for
	Function *ssa.Function

	// CFG is the control-flow graph of the function
	CFG *programgraph.ProgramGraph

	// Entry and Exit are the synthetic entry and exit nodes of the CFG
	Entry *programgraph.Node
	Exit  *programgraph.Node

	// Locals is the table of local variable slots of the function
	Locals *LocalVariableTable

	nodes map[ssa.Instruction]*programgraph.Node
}

// Build returns the control-flow graph of fn. fn must have been built in naive form. Every call returns graphs
// with fresh nodes. The error wraps ErrMalformedProcedure when fn has no body.
func Build(fn *ssa.Function) (*Procedure, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: no function", ErrMalformedProcedure)
	}
	if len(fn.Blocks) == 0 {
		return nil, fmt.Errorf("%w: %s has no body", ErrMalformedProcedure, fn)
	}
	b := &builder{
		fn:    fn,
		alloc: programgraph.NewIDAllocator(),
		cfg:   programgraph.New(),
		first: map[*ssa.BasicBlock]*programgraph.Node{},
		last:  map[*ssa.BasicBlock]*programgraph.Node{},
		proc: &Procedure{
			Function: fn,
			Locals:   NewLocalVariableTable(fn),
			nodes:    map[ssa.Instruction]*programgraph.Node{},
		},
	}
	b.proc.Entry = b.alloc.NewSyntheticNode("Entry")
	blocks := reachableBlocks(fn)
	line := lineOf(fn.Prog.Fset, fn.Pos())
	for _, block := range blocks {
		line = b.addBlock(block, line)
	}
	for _, block := range blocks {
		for _, succ := range block.Succs {
			b.cfg.AddEdge(b.last[block], b.first[succ])
		}
	}
	b.proc.Exit = b.alloc.NewSyntheticNode("Exit")

	for _, n := range b.cfg.Nodes() {
		if b.cfg.Predecessors(n).IsEmpty() {
			b.cfg.AddEdge(b.proc.Entry, n)
		}
	}
	for _, n := range b.cfg.Nodes() {
		if n != b.proc.Entry && b.cfg.Successors(n).IsEmpty() {
			b.cfg.AddEdge(n, b.proc.Exit)
		}
	}
	// a function that never returns has no node leading to the exit
	b.cfg.AddNode(b.proc.Exit)

	if _, err := b.cfg.Entry(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedProcedure, fn, err)
	}
	if _, err := b.cfg.Exit(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedProcedure, fn, err)
	}
	b.proc.CFG = b.cfg
	return b.proc, nil
}

type builder struct {
	fn    *ssa.Function
	alloc *programgraph.IDAllocator
	cfg   *programgraph.ProgramGraph
	proc  *Procedure

	// first and last nodes of each block
	first map[*ssa.BasicBlock]*programgraph.Node
	last  map[*ssa.BasicBlock]*programgraph.Node
}

// addBlock adds the nodes of block to the graph, chained in order. line is the line of the last instruction
// preceding the block in the function, inherited by the first instructions of the block if they have no
// position. Returns the line of the last instruction of the block.
func (b *builder) addBlock(block *ssa.BasicBlock, line int) int {
	var prev *programgraph.Node
	link := func(n *programgraph.Node) {
		if prev == nil {
			b.first[block] = n
			b.cfg.AddNode(n)
		} else {
			b.cfg.AddEdge(prev, n)
		}
		prev = n
	}
	lines := instructionLines(b.fn.Prog.Fset, block, line)
	for i, instr := range block.Instrs {
		if i == 0 || lines[i] != lines[i-1] {
			link(b.alloc.NewNode(LineMarker{Line: lines[i]}, lines[i]))
		}
		n := b.alloc.NewNode(instr, lines[i])
		b.proc.nodes[instr] = n
		link(n)
	}
	if prev == nil {
		// blocks always end with a control instruction, but be safe with empty ones
		n := b.alloc.NewNode(LineMarker{Line: line}, line)
		link(n)
	}
	b.last[block] = prev
	if len(lines) > 0 {
		return lines[len(lines)-1]
	}
	return line
}

// instructionLines returns the source line of each instruction of block. Instructions without position are
// on the line of the closest preceding instruction with a position.
func instructionLines(fset *token.FileSet, block *ssa.BasicBlock, line int) []int {
	lines := make([]int, len(block.Instrs))
	for i, instr := range block.Instrs {
		if l := lineOf(fset, instr.Pos()); l != programgraph.UnknownLine {
			line = l
		}
		lines[i] = line
	}
	return lines
}

func lineOf(fset *token.FileSet, pos token.Pos) int {
	if !pos.IsValid() {
		return programgraph.UnknownLine
	}
	return fset.Position(pos).Line
}

// reachableBlocks returns the blocks reachable from the entry block, in the order of fn.Blocks. The recover
// block is only reachable through panics and is excluded.
func reachableBlocks(fn *ssa.Function) []*ssa.BasicBlock {
	seen := map[*ssa.BasicBlock]bool{}
	stack := []*ssa.BasicBlock{fn.Blocks[0]}
	for len(stack) > 0 {
		block := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[block] {
			continue
		}
		seen[block] = true
		stack = append(stack, block.Succs...)
	}
	var blocks []*ssa.BasicBlock
	for _, block := range fn.Blocks {
		if seen[block] {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// NodeOf returns the node of instr, or nil if instr is not in the graph
func (p *Procedure) NodeOf(instr ssa.Instruction) *programgraph.Node {
	return p.nodes[instr]
}

// InstructionOf returns the SSA instruction of n, if n is an instruction node
func InstructionOf(n *programgraph.Node) (ssa.Instruction, bool) {
	if n == nil {
		return nil, false
	}
	instr, ok := n.Instr().(ssa.Instruction)
	return instr, ok
}

// LineOf returns the line of n if n is a line marker
func (p *Procedure) LineOf(n *programgraph.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	m, ok := n.Instr().(LineMarker)
	return m.Line, ok
}

// IsMarker returns true if n is a line marker
func (p *Procedure) IsMarker(n *programgraph.Node) bool {
	_, ok := p.LineOf(n)
	return ok
}

// StoredLocal returns the name of the local variable n stores to, if n stores to a named local slot
func (p *Procedure) StoredLocal(n *programgraph.Node) (string, bool) {
	instr, ok := InstructionOf(n)
	if !ok {
		return "", false
	}
	store, ok := instr.(*ssa.Store)
	if !ok {
		return "", false
	}
	alloc, ok := store.Addr.(*ssa.Alloc)
	if !ok {
		return "", false
	}
	slot, ok := p.Locals.SlotOf(alloc)
	if !ok {
		return "", false
	}
	local, _ := p.Locals.Lookup(slot)
	if local.Synthetic {
		return "", false
	}
	return local.Name, true
}

// StoredField returns the name of the field or global variable n stores to, if n stores to a field of a struct
// or to a global
func (p *Procedure) StoredField(n *programgraph.Node) (string, bool) {
	instr, ok := InstructionOf(n)
	if !ok {
		return "", false
	}
	store, ok := instr.(*ssa.Store)
	if !ok {
		return "", false
	}
	switch addr := store.Addr.(type) {
	case *ssa.FieldAddr:
		if _, field, ok := fieldOf(addr); ok {
			return field, true
		}
	case *ssa.Global:
		return addr.Name(), true
	}
	return "", false
}

// Format returns the text of an instruction node, with the name of the value it defines if any:
// "t1 = *x" for a value, "*x = t1" for a store, "L12" for a line marker, the label of synthetic nodes.
func Format(n *programgraph.Node) string {
	if n.IsSynthetic() {
		return n.Label()
	}
	if v, ok := n.Instr().(ssa.Value); ok {
		return v.Name() + " = " + v.String()
	}
	return n.Instr().String()
}
