// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package label

import (
	"math/bits"
	"strings"
)

// Set is a set of label ids over a fixed universe.
// The zero value is an empty set that grows on Add.
type Set struct {
	words []uint64
}

// NewSet returns an empty set sized for ids below n.
func NewSet(n int) Set {
	return Set{words: make([]uint64, (n+63)/64)}
}

// Add inserts id.
func (s *Set) Add(id ID) {
	w := int(id) / 64
	for w >= len(s.words) {
		s.words = append(s.words, 0)
	}
	s.words[w] |= 1 << (uint(id) % 64)
}

// Has reports whether id is in the set.
func (s Set) Has(id ID) bool {
	w := int(id) / 64
	if id < 0 || w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<(uint(id)%64)) != 0
}

// Union adds every member of o and reports whether s grew.
func (s *Set) Union(o Set) bool {
	for len(s.words) < len(o.words) {
		s.words = append(s.words, 0)
	}
	grew := false
	for i, w := range o.words {
		if merged := s.words[i] | w; merged != s.words[i] {
			s.words[i] = merged
			grew = true
		}
	}
	return grew
}

// Len returns the number of members.
func (s Set) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls fn for every member in ascending order.
func (s Set) Each(fn func(ID)) {
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(ID(i*64 + b))
			w &^= 1 << uint(b)
		}
	}
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := Set{words: make([]uint64, len(s.words))}
	copy(c.words, s.words)
	return c
}

// Format renders the members by name, e.g. "{a, b}".
func (s Set) Format(a *Alphabet) string {
	var names []string
	s.Each(func(id ID) { names = append(names, a.Name(id)) })
	return "{" + strings.Join(names, ", ") + "}"
}
