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

package defuse

import (
	"fmt"
	"testing"

	"github.com/awslabs/ar-go-slicer/analysis/programgraph"
)

func TestVarSetSorted(t *testing.T) {
	s := NewVarSet(
		Variable{Kind: Field, Key: "T.x"},
		Variable{Kind: Local, Key: "b"},
		Variable{Kind: Local, Key: "a"},
		Variable{Kind: Register, Key: "t0"},
	)
	s.Add(Variable{Kind: Local, Key: "a"})
	if got := s.String(); got != "{register:t0, local:a, local:b, field:T.x}" {
		t.Errorf("unexpected set %s", got)
	}
	if !s.Contains(Variable{Kind: Local, Key: "b"}) || s.Contains(Variable{Kind: Global, Key: "b"}) {
		t.Errorf("variables should be compared by kind and key")
	}
}

func TestCachedQueriesOnce(t *testing.T) {
	alloc := programgraph.NewIDAllocator()
	a := alloc.NewSyntheticNode("a")
	b := alloc.NewSyntheticNode("b")
	calls := map[programgraph.ID]int{}
	oracle := NewCached(Func(func(n *programgraph.Node) (DefUse, error) {
		calls[n.ID()]++
		if n == b {
			return DefUse{}, fmt.Errorf("no instruction")
		}
		return DefUse{Defs: NewVarSet(Variable{Kind: Local, Key: "x"})}, nil
	}))
	for i := 0; i < 3; i++ {
		du, err := oracle.DefUse(a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if du.Uses == nil || !du.Defs.Contains(Variable{Kind: Local, Key: "x"}) {
			t.Fatalf("unexpected answer %v", du)
		}
		if _, err := oracle.DefUse(b); err == nil {
			t.Fatalf("expected error for b")
		}
	}
	if calls[a.ID()] != 1 || calls[b.ID()] != 3 {
		t.Errorf("expected 1 call for a and 3 for b, got %v", calls)
	}
}
