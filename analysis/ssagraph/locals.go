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
	"fmt"
	"go/types"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// syntheticLocals are the comments of the Alloc instructions the SSA builder creates for values that are not
// source-level variables
var syntheticLocals = map[string]bool{
	"complit":       true,
	"slicelit":      true,
	"varargs":       true,
	"new":           true,
	"makeslice":     true,
	"rangeindex":    true,
	"rangeint.iter": true,
}

// LocalVariable is a local storage slot of a function
type LocalVariable struct {
	// Index is the slot index, the position of the Alloc in the function
	Index int
	// Name is the name of the variable in the source
	Name string
	// Type is the type of the variable
	Type types.Type
	// Synthetic is true for slots that do not correspond to a source variable
	Synthetic bool
	// Alloc is the instruction allocating the slot
	Alloc *ssa.Alloc
}

func (l LocalVariable) String() string {
	return fmt.Sprintf("%d: %s %s", l.Index, l.Name, l.Type)
}

// LocalVariableTable maps the slot index of each local variable of a function to its name and type
type LocalVariableTable struct {
	locals  []LocalVariable
	byAlloc map[*ssa.Alloc]int
}

// NewLocalVariableTable returns the table of local variables of fn, in the order of their Alloc instructions.
// Parameters are included when fn is in naive form, where they are spilled to local slots.
func NewLocalVariableTable(fn *ssa.Function) *LocalVariableTable {
	t := &LocalVariableTable{byAlloc: map[*ssa.Alloc]int{}}
	for _, block := range fn.Blocks {
		for _, instr := range block.Instrs {
			alloc, ok := instr.(*ssa.Alloc)
			if !ok {
				continue
			}
			index := len(t.locals)
			t.locals = append(t.locals, LocalVariable{
				Index:     index,
				Name:      alloc.Comment,
				Type:      alloc.Type().Underlying().(*types.Pointer).Elem(),
				Synthetic: alloc.Comment == "" || syntheticLocals[alloc.Comment],
				Alloc:     alloc,
			})
			t.byAlloc[alloc] = index
		}
	}
	return t
}

// Len returns the number of slots
func (t *LocalVariableTable) Len() int {
	return len(t.locals)
}

// Lookup returns the local variable at slot index
func (t *LocalVariableTable) Lookup(index int) (LocalVariable, bool) {
	if index < 0 || index >= len(t.locals) {
		return LocalVariable{}, false
	}
	return t.locals[index], true
}

// SlotOf returns the slot index allocated by alloc
func (t *LocalVariableTable) SlotOf(alloc *ssa.Alloc) (int, bool) {
	index, ok := t.byAlloc[alloc]
	return index, ok
}

// Named returns the slots of the source variables called name, in slot order. Go allows shadowing, so there
// may be several.
func (t *LocalVariableTable) Named(name string) []LocalVariable {
	var res []LocalVariable
	for _, l := range t.locals {
		if !l.Synthetic && l.Name == name {
			res = append(res, l)
		}
	}
	return res
}

func (t *LocalVariableTable) String() string {
	var b strings.Builder
	for _, l := range t.locals {
		if l.Synthetic {
			continue
		}
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}
