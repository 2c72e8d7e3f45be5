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

package funcutil

import (
	"strconv"
	"testing"
)

func TestMerge(t *testing.T) {
	a := map[string]int{"x": 1, "y": 2}
	b := map[string]int{"y": 3, "z": 4}
	Merge(a, b, func(x, y int) int { return x + y })
	expected := map[string]int{"x": 1, "y": 5, "z": 4}
	if len(a) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, a)
	}
	for k, v := range expected {
		if a[k] != v {
			t.Errorf("a[%q] = %d, expected %d", k, a[k], v)
		}
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{3, 1, 2}, strconv.Itoa)
	if len(got) != 3 || got[0] != "3" || got[1] != "1" || got[2] != "2" {
		t.Errorf("unexpected result %v", got)
	}
	if got := Map([]int(nil), strconv.Itoa); len(got) != 0 {
		t.Errorf("mapping nil should be empty, got %v", got)
	}
}

func TestExists(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }
	for _, test := range []struct {
		input    []int
		expected bool
	}{
		{nil, false},
		{[]int{1, 3, 5}, false},
		{[]int{1, 4, 5}, true},
	} {
		if got := Exists(test.input, even); got != test.expected {
			t.Errorf("Exists(%v) = %v, expected %v", test.input, got, test.expected)
		}
	}
}
