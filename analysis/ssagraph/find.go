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
	"go/types"
	"strings"

	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/internal/funcutil"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ErrFunctionNotFound is returned when no function of the program matches a function description
var ErrFunctionNotFound = errors.New("function not found")

// FindFunction returns the unique function of prog described by desc, which has the form name[:signature].
// The name is matched against the name of the function ("Add"), its name relative to its package ("(*T).Add")
// and its full name ("(*example.com/calc.T).Add"). The optional signature is matched against the signature of the
// function with or without parameter names, ignoring spaces: "func(a int, b int) int" and "func(int,int)int" both
// describe gcd(a, b int) int.
func FindFunction(prog *ssa.Program, desc string) (*ssa.Function, error) {
	name, sig, _ := strings.Cut(desc, ":")
	matches := findFunctions(prog, func(fn *ssa.Function) bool {
		if !(fn.Name() == name || fn.String() == name || (fn.Pkg != nil && fn.RelString(fn.Pkg.Pkg) == name)) {
			return false
		}
		return sig == "" || matchesSignature(fn.Signature, sig)
	})
	return unique(desc, matches)
}

// MatchFunction returns the unique function of prog matching cid. See config.CodeIdentifier.
func MatchFunction(prog *ssa.Program, cid config.CodeIdentifier) (*ssa.Function, error) {
	matches := findFunctions(prog, func(fn *ssa.Function) bool {
		return cid.Matches(fn.Pkg.Pkg.Path(), receiverName(fn), fn.Name(), fn.Signature.String())
	})
	return unique(cid.String(), matches)
}

func unique(desc string, matches []*ssa.Function) (*ssa.Function, error) {
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, desc)
	case 1:
		return matches[0], nil
	}
	names := funcutil.Map(matches, func(fn *ssa.Function) string { return fn.String() + fn.Signature.String() })
	return nil, fmt.Errorf("%q is ambiguous, candidates are: %s", desc, strings.Join(names, ", "))
}

// findFunctions returns the source functions of prog that satisfy pred, sorted by name
func findFunctions(prog *ssa.Program, pred func(*ssa.Function) bool) []*ssa.Function {
	var res []*ssa.Function
	for fn := range ssautil.AllFunctions(prog) {
		if fn.Pkg == nil || fn.Synthetic != "" || len(fn.Blocks) == 0 {
			continue
		}
		if pred(fn) {
			res = append(res, fn)
		}
	}
	slices.SortFunc(res, func(a, b *ssa.Function) bool { return a.String() < b.String() })
	return res
}

func receiverName(fn *ssa.Function) string {
	recv := fn.Signature.Recv()
	if recv == nil {
		return ""
	}
	t := recv.Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		return named.Obj().Name()
	}
	return t.String()
}

func matchesSignature(sig *types.Signature, desc string) bool {
	desc = strings.ReplaceAll(desc, " ", "")
	return strings.ReplaceAll(sig.String(), " ", "") == desc || namelessSignature(sig) == desc
}

// namelessSignature returns the signature without parameter names and spaces, e.g. func(int,int)int
func namelessSignature(sig *types.Signature) string {
	tuple := func(t *types.Tuple, variadic bool) []string {
		var res []string
		for i := 0; i < t.Len(); i++ {
			s := types.TypeString(t.At(i).Type(), nil)
			if variadic && i == t.Len()-1 {
				s = "..." + strings.TrimPrefix(s, "[]")
			}
			res = append(res, strings.ReplaceAll(s, " ", ""))
		}
		return res
	}
	s := "func(" + strings.Join(tuple(sig.Params(), sig.Variadic()), ",") + ")"
	results := tuple(sig.Results(), false)
	switch len(results) {
	case 0:
	case 1:
		s += results[0]
	default:
		s += "(" + strings.Join(results, ",") + ")"
	}
	return s
}
