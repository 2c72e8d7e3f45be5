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

// Package defuse defines the contract between the data-dependence analysis and the front-ends: which variables
// each node of a control-flow graph reads and writes.
package defuse

import (
	"fmt"
	"strings"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind is the kind of storage a variable lives in
type Kind int

const (
	// Register is a temporary value, e.g. an SSA value or an operand stack slot
	Register Kind = iota
	// Local is a local storage slot of the procedure
	Local
	// Field is a named field of a structured value, identified by its declaring type and name
	Field
	// Global is a package-level or static variable
	Global
)

func (k Kind) String() string {
	switch k {
	case Register:
		return "register"
	case Local:
		return "local"
	case Field:
		return "field"
	case Global:
		return "global"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Variable is a storage location. Variables are compared by value: two variables with the same kind and key are
// the same variable, regardless of which node produced them.
type Variable struct {
	Kind Kind
	// Key identifies the variable among the variables of its kind
	Key string
}

func (v Variable) String() string {
	return v.Kind.String() + ":" + v.Key
}

// VarSet is a set of variables
type VarSet map[Variable]bool

// NewVarSet returns a set containing vars
func NewVarSet(vars ...Variable) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = true
	}
	return s
}

// Add adds v to the set
func (s VarSet) Add(v Variable) {
	s[v] = true
}

// Contains returns true if v is in the set
func (s VarSet) Contains(v Variable) bool {
	return s[v]
}

// Sorted returns the variables of the set ordered by kind then key
func (s VarSet) Sorted() []Variable {
	vars := maps.Keys(s)
	slices.SortFunc(vars, func(a, b Variable) bool {
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Key < b.Key
	})
	return vars
}

func (s VarSet) String() string {
	var parts []string
	for _, v := range s.Sorted() {
		parts = append(parts, v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DefUse is the set of variables used and defined by a single node
type DefUse struct {
	Uses VarSet
	Defs VarSet
}

// Empty returns a DefUse with no uses and no definitions
func Empty() DefUse {
	return DefUse{Uses: VarSet{}, Defs: VarSet{}}
}

// Oracle returns the uses and definitions of the nodes of a control-flow graph.
// Synthetic nodes (entry, exit, line markers) use and define nothing.
type Oracle interface {
	DefUse(n *programgraph.Node) (DefUse, error)
}

// Func adapts a function to the Oracle interface
type Func func(n *programgraph.Node) (DefUse, error)

// DefUse calls f
func (f Func) DefUse(n *programgraph.Node) (DefUse, error) {
	return f(n)
}

// Cached memoizes the answers of an oracle per node. Errors are not cached.
type Cached struct {
	oracle Oracle
	cache  map[programgraph.ID]DefUse
}

// NewCached returns a memoizing wrapper around oracle
func NewCached(oracle Oracle) *Cached {
	return &Cached{oracle: oracle, cache: map[programgraph.ID]DefUse{}}
}

// DefUse returns the cached answer for n, querying the wrapped oracle on the first call
func (c *Cached) DefUse(n *programgraph.Node) (DefUse, error) {
	if du, ok := c.cache[n.ID()]; ok {
		return du, nil
	}
	du, err := c.oracle.DefUse(n)
	if err != nil {
		return DefUse{}, err
	}
	if du.Uses == nil {
		du.Uses = VarSet{}
	}
	if du.Defs == nil {
		du.Defs = VarSet{}
	}
	c.cache[n.ID()] = du
	return du, nil
}
