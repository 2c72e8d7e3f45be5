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
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NodeSet is a set of nodes keyed by identity
type NodeSet map[ID]*Node

// NewNodeSet returns a set containing the nodes provided
func NewNodeSet(nodes ...*Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add adds n to the set. Adding nil is a no-op.
func (s NodeSet) Add(n *Node) {
	if n != nil {
		s[n.id] = n
	}
}

// AddAll adds all the nodes of other to s
// @mutates s
func (s NodeSet) AddAll(other NodeSet) {
	for id, n := range other {
		s[id] = n
	}
}

// Remove removes n from the set
func (s NodeSet) Remove(n *Node) {
	if n != nil {
		delete(s, n.id)
	}
}

// Contains returns true if a node with the identity of n is in the set
func (s NodeSet) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	_, ok := s[n.id]
	return ok
}

// Len returns the size of the set
func (s NodeSet) Len() int {
	return len(s)
}

// IsEmpty returns true if the set has no elements
func (s NodeSet) IsEmpty() bool {
	return len(s) == 0
}

// Clone returns a copy of the set that can be mutated independently
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for id, n := range s {
		c[id] = n
	}
	return c
}

// Equal returns true when both sets contain the same identities
func (s NodeSet) Equal(other NodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Intersect removes from s every node that is not in other and returns s
// @mutates s
func (s NodeSet) Intersect(other NodeSet) NodeSet {
	for id := range s {
		if _, ok := other[id]; !ok {
			delete(s, id)
		}
	}
	return s
}

// Union returns a new set containing the nodes of both sets
func (s NodeSet) Union(other NodeSet) NodeSet {
	u := s.Clone()
	u.AddAll(other)
	return u
}

// IDs returns the identities in the set in increasing order
func (s NodeSet) IDs() []ID {
	ids := maps.Keys(s)
	slices.Sort(ids)
	return ids
}

// Sorted returns the nodes of the set in increasing identity order
func (s NodeSet) Sorted() []*Node {
	ids := s.IDs()
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = s[id]
	}
	return nodes
}

func (s NodeSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, n := range s.Sorted() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.String())
	}
	b.WriteString("}")
	return b.String()
}
