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

// Package iface models the pending messages on the interface places of an
// open net.
//
// A Marking is a bounded multiset over the asynchronous labels: for every
// receive and send label it records how many messages are in transit. The
// message bound applies uniformly to each label. Markings are values; every
// update returns a fresh Marking and leaves the receiver untouched.
package iface

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jazzpetri/partner/label"
)

// MaxBound is the largest supported message bound.
const MaxBound = 255

// ErrBoundExceeded is returned when a message would exceed the bound.
var ErrBoundExceeded = errors.New("message bound exceeded")

// Marking holds the pending message count of every asynchronous label.
// Index i stores label id i+1.
type Marking struct {
	counts []uint8
	bound  uint8
}

// New returns the empty marking over async labels with the given bound.
// Bounds outside [1, MaxBound] are clamped; knowledge.Initial rejects
// them with an error instead.
func New(async, bound int) Marking {
	if bound < 1 {
		bound = 1
	}
	if bound > MaxBound {
		bound = MaxBound
	}
	return Marking{counts: make([]uint8, async), bound: uint8(bound)}
}

// Bound returns the message bound.
func (m Marking) Bound() int { return int(m.bound) }

// Len returns the number of asynchronous labels.
func (m Marking) Len() int { return len(m.counts) }

// Count returns the pending messages of label l; 0 for non-async labels.
func (m Marking) Count(l label.ID) int {
	i := int(l) - 1
	if i < 0 || i >= len(m.counts) {
		return 0
	}
	return int(m.counts[i])
}

// Marked reports whether at least one message of label l is pending.
func (m Marking) Marked(l label.ID) bool { return m.Count(l) > 0 }

// Unmarked reports whether no message is pending at all.
func (m Marking) Unmarked() bool {
	for _, c := range m.counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Inc returns m with one more message of label l. It fails with
// ErrBoundExceeded when the count would pass the bound.
func (m Marking) Inc(l label.ID) (Marking, error) {
	i := int(l) - 1
	if i < 0 || i >= len(m.counts) {
		return m, fmt.Errorf("label %d is not asynchronous", int(l))
	}
	if m.counts[i] >= m.bound {
		return m, fmt.Errorf("%w: label %d already holds %d", ErrBoundExceeded, int(l), m.counts[i])
	}
	next := m.clone()
	next.counts[i]++
	return next, nil
}

// Dec returns m with one message of label l removed. The caller must
// ensure Marked(l).
func (m Marking) Dec(l label.ID) Marking {
	i := int(l) - 1
	if i < 0 || i >= len(m.counts) || m.counts[i] == 0 {
		panic(fmt.Sprintf("iface: decrement of unmarked label %d", int(l)))
	}
	next := m.clone()
	next.counts[i]--
	return next
}

// Equal reports whether both markings hold the same counts.
func (m Marking) Equal(o Marking) bool {
	return bytes.Equal(m.counts, o.counts)
}

// Compare orders markings lexicographically by count.
func (m Marking) Compare(o Marking) int {
	return bytes.Compare(m.counts, o.counts)
}

// Hash returns a polynomial hash over the counts.
func (m Marking) Hash() uint64 {
	var h uint64
	for _, c := range m.counts {
		h = h*31 + uint64(c)
	}
	return h
}

// AppendBinary appends the raw counts to b.
func (m Marking) AppendBinary(b []byte) []byte {
	return append(b, m.counts...)
}

// Format renders the pending messages by name, e.g. "[a, b:2]".
func (m Marking) Format(a *label.Alphabet) string {
	parts := make([]string, 0)
	for i, c := range m.counts {
		if c == 0 {
			continue
		}
		name := a.Name(label.ID(i + 1))
		if c == 1 {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("%s:%d", name, c))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// String renders the raw counts.
func (m Marking) String() string {
	return fmt.Sprintf("%v", m.counts)
}

func (m Marking) clone() Marking {
	c := Marking{counts: make([]uint8, len(m.counts)), bound: m.bound}
	copy(c.counts, m.counts)
	return c
}
