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
	"go/token"
	"go/types"
	"strconv"

	"github.com/awslabs/ar-go-slicer/analysis/defuse"
	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"golang.org/x/tools/go/ssa"
)

// Oracle computes the uses and definitions of the nodes of a procedure's graph:
//   - SSA values are register variables, defined by their instruction and used by their referrers;
//   - Alloc slots are local variables, defined by their allocation (zero value) and by stores, used by loads;
//   - addresses of struct fields are field variables, keyed by struct type and field name;
//   - globals are global variables;
//   - accesses to elements of arrays, slices and maps are accesses to the storage holding the collection.
//
// Addresses of local slots and globals are not register uses: the access is a use or definition of the variable
// itself.
type Oracle struct {
	proc *Procedure
}

// NewOracle returns the def-use oracle of the procedure
func NewOracle(proc *Procedure) *Oracle {
	return &Oracle{proc: proc}
}

// DefUse returns the uses and definitions of n. Synthetic nodes and line markers have none.
func (o *Oracle) DefUse(n *programgraph.Node) (defuse.DefUse, error) {
	du := defuse.Empty()
	instr, ok := InstructionOf(n)
	if !ok {
		return du, nil
	}
	if v, ok := instr.(ssa.Value); ok {
		du.Defs.Add(register(v))
	}

	switch instr := instr.(type) {
	case *ssa.Alloc:
		// the Alloc value is an address, not a register the program computes with
		du.Defs = defuse.NewVarSet(o.local(instr))
	case *ssa.Store:
		o.useRegister(du.Uses, instr.Val)
		o.useRegister(du.Uses, instr.Addr)
		// stores through pointers of unknown origin define nothing
		if v, ok := o.storage(instr.Addr); ok {
			du.Defs.Add(v)
		}
	case *ssa.UnOp:
		o.useRegister(du.Uses, instr.X)
		if instr.Op == token.MUL {
			if v, ok := o.storage(instr.X); ok {
				du.Uses.Add(v)
			}
		}
	case *ssa.FieldAddr:
		// reading or writing s.f depends on previous writes to s
		o.useRegister(du.Uses, instr.X)
		if v, ok := o.root(instr.X); ok {
			du.Uses.Add(v)
		}
	case *ssa.IndexAddr:
		o.useRegister(du.Uses, instr.X)
		o.useRegister(du.Uses, instr.Index)
		if v, ok := o.root(instr.X); ok {
			du.Uses.Add(v)
		}
	case *ssa.MapUpdate:
		o.useRegister(du.Uses, instr.Map)
		o.useRegister(du.Uses, instr.Key)
		o.useRegister(du.Uses, instr.Value)
		if v, ok := o.root(instr.Map); ok {
			du.Defs.Add(v)
		}
	default:
		for _, op := range instr.Operands(nil) {
			if op != nil {
				o.useRegister(du.Uses, *op)
			}
		}
	}
	return du, nil
}

// useRegister adds v to uses if v is a register
func (o *Oracle) useRegister(uses defuse.VarSet, v ssa.Value) {
	switch v.(type) {
	case nil, *ssa.Const, *ssa.Function, *ssa.Builtin, *ssa.Alloc, *ssa.Global:
		return
	}
	uses.Add(register(v))
}

// storage returns the variable an address designates
func (o *Oracle) storage(addr ssa.Value) (defuse.Variable, bool) {
	switch addr := addr.(type) {
	case *ssa.Alloc:
		return o.local(addr), true
	case *ssa.Global:
		return global(addr), true
	case *ssa.FieldAddr:
		if typ, field, ok := fieldOf(addr); ok {
			return defuse.Variable{Kind: defuse.Field, Key: typ + "." + field}, true
		}
	case *ssa.IndexAddr:
		return o.root(addr.X)
	}
	return defuse.Variable{}, false
}

// root returns the variable holding the collection or struct v points into: v itself for local slots and
// globals, the variable a value has been loaded from for slices and maps.
func (o *Oracle) root(v ssa.Value) (defuse.Variable, bool) {
	switch v := v.(type) {
	case *ssa.Alloc:
		return o.local(v), true
	case *ssa.Global:
		return global(v), true
	case *ssa.UnOp:
		if v.Op == token.MUL {
			return o.storage(v.X)
		}
	case *ssa.FieldAddr, *ssa.IndexAddr:
		return o.storage(v)
	}
	return defuse.Variable{}, false
}

func (o *Oracle) local(alloc *ssa.Alloc) defuse.Variable {
	slot, ok := o.proc.Locals.SlotOf(alloc)
	if !ok {
		// allocation of another function, e.g. captured by a closure
		return defuse.Variable{Kind: defuse.Local, Key: alloc.Parent().String() + "." + alloc.Comment}
	}
	return defuse.Variable{Kind: defuse.Local, Key: strconv.Itoa(slot) + ":" + alloc.Comment}
}

func global(g *ssa.Global) defuse.Variable {
	return defuse.Variable{Kind: defuse.Global, Key: g.String()}
}

func register(v ssa.Value) defuse.Variable {
	return defuse.Variable{Kind: defuse.Register, Key: v.Name()}
}

// fieldOf returns the name of the struct type and the name of the field addr is the address of
func fieldOf(addr *ssa.FieldAddr) (string, string, bool) {
	ptr, ok := addr.X.Type().Underlying().(*types.Pointer)
	if !ok {
		return "", "", false
	}
	st, ok := ptr.Elem().Underlying().(*types.Struct)
	if !ok || addr.Field < 0 || addr.Field >= st.NumFields() {
		return "", "", false
	}
	return types.TypeString(ptr.Elem(), nil), st.Field(addr.Field).Name(), true
}

// String returns the uses and definitions of every instruction of the procedure, one per line
func (o *Oracle) String() string {
	s := ""
	for _, n := range o.proc.CFG.Nodes() {
		if _, ok := InstructionOf(n); !ok {
			continue
		}
		du, _ := o.DefUse(n)
		s += fmt.Sprintf("%-30s defs %v uses %v\n", Format(n), du.Defs, du.Uses)
	}
	return s
}
