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

package petri

import (
	"fmt"
	"sort"
	"strings"
)

// Marking maps place IDs to token counts. Places that are absent or mapped
// to zero are unmarked.
type Marking map[string]int

// Key returns a canonical string key for this marking. Zero entries are
// skipped, so markings that differ only in explicit zeros share a key.
func (m Marking) Key() string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, m[k])
	}
	return strings.Join(parts, ",")
}

// Copy returns a deep copy of the marking.
func (m Marking) Copy() Marking {
	c := make(Marking, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Equal reports whether both markings put the same number of tokens on
// every place.
func (m Marking) Equal(o Marking) bool {
	return m.Key() == o.Key()
}

// Tokens returns the total number of tokens.
func (m Marking) Tokens() int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// String renders the marking as "[p1, p2:2]".
func (m Marking) String() string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for i, k := range keys {
		if m[k] > 1 {
			keys[i] = fmt.Sprintf("%s:%d", k, m[k])
		}
	}
	return "[" + strings.Join(keys, ", ") + "]"
}
