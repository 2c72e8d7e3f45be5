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

package render

import (
	"bytes"
	"fmt"
	"go/types"
	"io"
	"os"
	"strings"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"github.com/awslabs/ar-go-slicer/analysis/ssagraph"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/ssa"
)

// SourceLines prints the distinct source lines of nodes, in order and without indentation. nodes must be sorted
// by line (see SortByLine). The instructions spilling parameters to their local slots are not printed as source
// lines: when the slice has one, the signature of the function is printed first instead. The lines are read from
// sourceFile, or from the file of the function if sourceFile is empty.
func SourceLines(w io.Writer, proc *ssagraph.Procedure, nodes []*programgraph.Node, sourceFile string) error {
	fn := proc.Function
	if sourceFile == "" {
		sourceFile = fn.Prog.Fset.Position(fn.Pos()).Filename
	}
	content, err := os.ReadFile(sourceFile)
	if err != nil {
		return fmt.Errorf("could not read source of %s: %w", fn, err)
	}
	lines := strings.Split(string(content), "\n")

	spills := parameterSpills(fn)
	var body []*programgraph.Node
	for _, n := range nodes {
		if instr, ok := ssagraph.InstructionOf(n); ok && spills[instr] {
			continue
		}
		body = append(body, n)
	}
	if len(body) < len(nodes) {
		sig, err := Signature(fn)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, sig); err != nil {
			return err
		}
	}
	last := programgraph.UnknownLine
	for _, n := range body {
		line := n.Line()
		if line == last || line < 1 {
			continue
		}
		last = line
		if line > len(lines) {
			return fmt.Errorf("line %d is not in %s", line, sourceFile)
		}
		if _, err := fmt.Fprintln(w, strings.TrimSpace(lines[line-1])); err != nil {
			return err
		}
	}
	return nil
}

// parameterSpills returns the allocations of the parameters of fn and the stores of the parameters to them
func parameterSpills(fn *ssa.Function) map[ssa.Instruction]bool {
	spills := map[ssa.Instruction]bool{}
	if len(fn.Blocks) == 0 {
		return spills
	}
	for _, instr := range fn.Blocks[0].Instrs {
		store, ok := instr.(*ssa.Store)
		if !ok {
			continue
		}
		if _, isParam := store.Val.(*ssa.Parameter); !isParam {
			continue
		}
		spills[store] = true
		if alloc, ok := store.Addr.(*ssa.Alloc); ok {
			spills[alloc] = true
		}
	}
	return spills
}

// Signature returns the declaration line of fn, e.g. "func (c *Calculator) Add(x int) {"
func Signature(fn *ssa.Function) (string, error) {
	var qualifier types.Qualifier
	pkgName := "main"
	if fn.Pkg != nil {
		qualifier = types.RelativeTo(fn.Pkg.Pkg)
		pkgName = fn.Pkg.Pkg.Name()
	}
	sig := fn.Signature
	field := func(v *types.Var, typ string) *dst.Field {
		f := &dst.Field{Type: dst.NewIdent(typ)}
		if v.Name() != "" {
			f.Names = []*dst.Ident{dst.NewIdent(v.Name())}
		}
		return f
	}
	fields := func(t *types.Tuple, variadic bool) *dst.FieldList {
		list := &dst.FieldList{}
		for i := 0; i < t.Len(); i++ {
			typ := types.TypeString(t.At(i).Type(), qualifier)
			if variadic && i == t.Len()-1 {
				typ = "..." + strings.TrimPrefix(typ, "[]")
			}
			list.List = append(list.List, field(t.At(i), typ))
		}
		return list
	}

	decl := &dst.FuncDecl{
		Name: dst.NewIdent(fn.Name()),
		Type: &dst.FuncType{Params: fields(sig.Params(), sig.Variadic())},
		Body: &dst.BlockStmt{},
	}
	if recv := sig.Recv(); recv != nil {
		decl.Recv = &dst.FieldList{List: []*dst.Field{field(recv, types.TypeString(recv.Type(), qualifier))}}
	}
	if sig.Results().Len() > 0 {
		decl.Type.Results = fields(sig.Results(), false)
	}

	var buf bytes.Buffer
	file := &dst.File{Name: dst.NewIdent(pkgName), Decls: []dst.Decl{decl}}
	if err := decorator.Fprint(&buf, file); err != nil {
		return "", fmt.Errorf("could not print signature of %s: %w", fn, err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "func ") {
			return strings.TrimSuffix(line, "}"), nil
		}
	}
	return "", fmt.Errorf("could not print signature of %s", fn)
}
