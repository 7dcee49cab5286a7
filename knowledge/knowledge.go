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

// Package knowledge computes what a partner can know about an open net.
//
// A Knowledge is a bubble of (inner state, interface marking) pairs that
// the partner cannot tell apart after a given sequence of its own actions.
// The bubble is always closed under the moves the net makes on its own:
// silent steps, putting messages on output places, and consuming messages
// that are already pending on input places.
//
// Firing a partner action on a Knowledge yields the successor Knowledge:
//
//   - send l: one more message l is pending in every pair
//   - receive l: only pairs with l pending survive, minus that message
//   - sync l: every pair moves along its inner edges labeled l
//
// A Knowledge is insane when its closure reaches a bad inner state or
// would exceed the message bound. Such a Knowledge is discarded by the
// caller; an insane action is never part of a correct partner.
package knowledge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jazzpetri/partner/iface"
	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/label"
)

// ErrInvalidBound is returned for a message bound outside [1, iface.MaxBound].
var ErrInvalidBound = errors.New("invalid message bound")

// Knowledge is a transient bubble of indistinguishable configurations.
type Knowledge struct {
	graph  *inner.Graph
	bound  int
	bubble map[int][]iface.Marking
	index  map[string]struct{}
	size   int
	sane   bool
}

type pair struct {
	state   int
	marking iface.Marking
}

func newKnowledge(g *inner.Graph, bound int) *Knowledge {
	return &Knowledge{
		graph:  g,
		bound:  bound,
		bubble: make(map[int][]iface.Marking),
		index:  make(map[string]struct{}),
		sane:   true,
	}
}

// Initial returns the closure of the initial inner state with no pending
// messages. The bound must lie in [1, iface.MaxBound].
func Initial(g *inner.Graph, bound int) (*Knowledge, error) {
	if bound < 1 || bound > iface.MaxBound {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidBound, bound, iface.MaxBound)
	}
	k := newKnowledge(g, bound)
	start := pair{state: g.Initial(), marking: iface.New(g.Alphabet().Async(), bound)}
	if k.add(start) {
		k.closure([]pair{start})
	}
	return k, nil
}

// Fire returns the Knowledge after the partner performs l. Silent and
// unknown labels yield an empty Knowledge.
func (k *Knowledge) Fire(l label.ID) *Knowledge {
	next := newKnowledge(k.graph, k.bound)
	a := k.graph.Alphabet()

	var queue []pair
	push := func(p pair) {
		if next.add(p) {
			queue = append(queue, p)
		}
	}

	switch a.Kind(l) {
	case label.KindSend:
		for _, state := range k.States() {
			for _, m := range k.bubble[state] {
				inc, err := m.Inc(l)
				if err != nil {
					next.sane = false
					return next
				}
				push(pair{state: state, marking: inc})
			}
		}

	case label.KindReceive:
		for _, state := range k.States() {
			for _, m := range k.bubble[state] {
				if m.Marked(l) {
					push(pair{state: state, marking: m.Dec(l)})
				}
			}
		}

	case label.KindSync:
		for _, state := range k.States() {
			for _, e := range k.graph.Edges(state) {
				if e.Label != l {
					continue
				}
				for _, m := range k.bubble[state] {
					push(pair{state: e.Succ, marking: m})
				}
			}
		}

	default:
		return next
	}

	next.closure(queue)
	return next
}

// closure adds every configuration the net reaches on its own from the
// queued pairs. It stops as soon as the Knowledge turns insane.
func (k *Knowledge) closure(queue []pair) {
	a := k.graph.Alphabet()

	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if k.graph.IsBad(cur.state) {
			k.sane = false
			return
		}

		for _, e := range k.graph.Edges(cur.state) {
			var next pair
			switch {
			case e.Label == label.Silent:
				next = pair{state: e.Succ, marking: cur.marking}
			case a.IsReceive(e.Label):
				inc, err := cur.marking.Inc(e.Label)
				if err != nil {
					k.sane = false
					return
				}
				next = pair{state: e.Succ, marking: inc}
			case a.IsSend(e.Label):
				if !cur.marking.Marked(e.Label) {
					continue
				}
				next = pair{state: e.Succ, marking: cur.marking.Dec(e.Label)}
			default:
				continue
			}
			if k.add(next) {
				queue = append(queue, next)
			}
		}
	}
}

// add inserts p and reports whether it was new.
func (k *Knowledge) add(p pair) bool {
	key := string(p.marking.AppendBinary(appendInt(nil, p.state)))
	if _, exists := k.index[key]; exists {
		return false
	}
	k.index[key] = struct{}{}
	k.bubble[p.state] = append(k.bubble[p.state], p.marking)
	k.size++
	return true
}

func appendInt(b []byte, v int) []byte {
	for i := 0; i < 8; i++ {
		b = append(b, byte(v>>(8*i)))
	}
	return b
}

// Graph returns the inner graph.
func (k *Knowledge) Graph() *inner.Graph { return k.graph }

// Bound returns the message bound.
func (k *Knowledge) Bound() int { return k.bound }

// Size returns the number of (state, marking) pairs.
func (k *Knowledge) Size() int { return k.size }

// Sane reports whether the Knowledge survived construction.
func (k *Knowledge) Sane() bool { return k.sane }

// States returns the inner states in the bubble in ascending order.
func (k *Knowledge) States() []int {
	out := make([]int, 0, len(k.bubble))
	for s := range k.bubble {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Markings returns the interface markings paired with state.
func (k *Knowledge) Markings(state int) []iface.Marking {
	return k.bubble[state]
}

// Each calls fn for every pair, states in ascending order.
func (k *Knowledge) Each(fn func(state int, m iface.Marking)) {
	for _, s := range k.States() {
		for _, m := range k.bubble[s] {
			fn(s, m)
		}
	}
}
