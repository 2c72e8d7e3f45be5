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

// Package analysistest provides loaders for the Go programs used in tests, and reads the expected results of
// slicing from annotations in their comments.
package analysistest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-slicer/analysis"
	"github.com/awslabs/ar-go-slicer/analysis/config"
	"github.com/awslabs/ar-go-slicer/internal/funcutil"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// BuildSource type-checks the single-file package src and builds it in naive SSA form. The file is named
// filename in the positions of the program.
func BuildSource(t *testing.T, filename string, src string) *ssa.Package {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", filename, err)
	}
	pkg := types.NewPackage(f.Name.Name, f.Name.Name)
	conf := &types.Config{Importer: importer.Default()}
	ssaPkg, _, err := ssautil.BuildPackage(conf, fset, pkg, []*ast.File{f}, ssa.NaiveForm)
	if err != nil {
		t.Fatalf("failed to build %s: %v", filename, err)
	}
	return ssaPkg
}

// LoadTest loads the program in the directory dir, looking for a main.go and an optional config.yaml. If additional
// files are specified as extraFiles, the program will be loaded using those files too.
// The program is built in naive form.
func LoadTest(t *testing.T, dir string, extraFiles []string) (*ssa.Program, *config.Config) {
	files := []string{filepath.Join(dir, "main.go")}
	for _, extraFile := range extraFiles {
		files = append(files, filepath.Join(dir, extraFile))
	}
	loaded, err := analysis.LoadProgram(nil, "", ssa.NaiveForm, files)
	if err != nil {
		t.Fatalf("error loading packages: %v", err)
	}
	cfg := config.NewDefault()
	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		config.SetGlobalConfig(configFile)
		cfg, err = config.LoadGlobal()
		if err != nil {
			t.Fatalf("error loading config: %v", err)
		}
	}
	return loaded.Program, cfg
}

// Match annotations of the form "@Criterion(x)", "@Slice(x, y)" and "@Outside(x, y)"
var (
	CriterionRegex = regexp.MustCompile(`//.*@Criterion\(\s*(\w+)\s*\)`)
	SliceRegex     = regexp.MustCompile(`//.*@Slice\(((?:\s*\w+\s*,?)+)\)`)
	OutsideRegex   = regexp.MustCompile(`//.*@Outside\(((?:\s*\w+\s*,?)+)\)`)
)

// LPos is a position in a file, without column
type LPos struct {
	Filename string
	Line     int
}

func (p LPos) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// RemoveColumn drops the column of pos
func RemoveColumn(pos token.Position) LPos {
	return LPos{Line: pos.Line, Filename: pos.Filename}
}

// ExpectedSlice is the expected slice for a criterion written in a source file.
//
// A criterion is marked by a comment "// @Criterion(x)" on the line of an assignment to the variable or field x.
// Lines that must be in the slice of x are marked with "// @Slice(x)", lines that must not be in the slice are
// marked with "// @Outside(x)". A line can be in the annotations of several criteria: "// @Slice(x, y)".
type ExpectedSlice struct {
	// Variable is the name of the variable of the criterion
	Variable string
	// Criterion is the line of the criterion
	Criterion LPos
	// Inside are the lines that must be in the slice
	Inside map[LPos]bool
	// Outside are the lines that must not be in the slice
	Outside map[LPos]bool
}

// GetExpectedSlices parses the Go files in dir and returns the slices described by their annotations, by variable
// name.
func GetExpectedSlices(dir string) (map[string]*ExpectedSlice, error) {
	fset := token.NewFileSet() // positions are relative to fset
	d := make(map[string]*ast.Package)
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			d0, err := parser.ParseDir(fset, path, nil, parser.ParseComments)
			funcutil.Merge(d, d0, func(x *ast.Package, _ *ast.Package) *ast.Package { return x })
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	expected := map[string]*ExpectedSlice{}
	get := func(name string) *ExpectedSlice {
		if e, ok := expected[name]; ok {
			return e
		}
		e := &ExpectedSlice{Variable: name, Inside: map[LPos]bool{}, Outside: map[LPos]bool{}}
		expected[name] = e
		return e
	}
	forEachComment(d, func(c *ast.Comment) {
		pos := RemoveColumn(fset.Position(c.Pos()))
		if a := CriterionRegex.FindStringSubmatch(c.Text); len(a) > 1 {
			get(a[1]).Criterion = pos
		}
		for _, name := range identifiers(SliceRegex, c.Text) {
			get(name).Inside[pos] = true
		}
		for _, name := range identifiers(OutsideRegex, c.Text) {
			get(name).Outside[pos] = true
		}
	})
	for name, e := range expected {
		if e.Criterion.Line == 0 {
			return nil, fmt.Errorf("annotations for %s without @Criterion(%s)", name, name)
		}
	}
	return expected, nil
}

func identifiers(r *regexp.Regexp, text string) []string {
	a := r.FindStringSubmatch(text)
	if len(a) <= 1 {
		return nil
	}
	var res []string
	for _, ident := range strings.Split(a[1], ",") {
		if s := strings.TrimSpace(ident); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func forEachComment(pkgs map[string]*ast.Package, f func(c *ast.Comment)) {
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, group := range file.Comments {
				for _, c := range group.List {
					f(c)
				}
			}
		}
	}
}
