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

package space

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/jazzpetri/partner/iface"
	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/knowledge"
	"github.com/jazzpetri/partner/label"
)

// SlotKind tags a successor slot.
type SlotKind uint8

const (
	// Unexplored means the label was pruned or led to an insane knowledge.
	Unexplored SlotKind = iota
	// Empty means no message content is possible after the label; the
	// partner never needs to handle it.
	Empty
	// Stored references a node of the space.
	Stored
)

// String returns the slot kind name.
func (k SlotKind) String() string {
	switch k {
	case Unexplored:
		return "unexplored"
	case Empty:
		return "empty"
	case Stored:
		return "stored"
	default:
		return "unknown"
	}
}

// Successor is one entry of a node's successor table.
type Successor struct {
	Kind SlotKind
	Node *Node
}

// Sane reports whether the slot references a sane node. The empty slot is
// not sane in this sense: it never resolves a deadlock.
func (s Successor) Sane() bool {
	return s.Kind == Stored && s.Node.sane
}

// Pair is a (inner state, interface marking) configuration of a node.
type Pair struct {
	State   int
	Marking iface.Marking
}

// Node is a hash-consed, immutable knowledge. Its pairs are sorted by state
// and marking, then split into the deadlock prefix pairs[:deadlocks] and
// the transient suffix. Only the deadlock prefix matters to sat.
type Node struct {
	pairs     []Pair
	deadlocks int
	succ      []Successor
	hash      uint64

	final          bool
	finalReachable bool
	sane           bool

	dfs     int
	lowlink int
	onStack bool
}

// newNode converts a knowledge into a node. Nothing is stored yet.
func newNode(k *knowledge.Knowledge) *Node {
	g := k.Graph()
	n := &Node{
		pairs: make([]Pair, 0, k.Size()),
		succ:  make([]Successor, g.Alphabet().Count()),
		sane:  k.Sane(),
		dfs:   -1,
	}

	for _, s := range k.States() {
		markings := append([]iface.Marking(nil), k.Markings(s)...)
		sort.Slice(markings, func(i, j int) bool { return markings[i].Compare(markings[j]) < 0 })
		for _, m := range markings {
			n.pairs = append(n.pairs, Pair{State: s, Marking: m})
		}
	}

	n.partition(g)
	n.hash = hashPairs(n.pairs)
	return n
}

// partition moves transient pairs behind the deadlock pairs, keeping the
// relative order within both groups. It also derives the final flags.
func (n *Node) partition(g *inner.Graph) {
	deadlocks := make([]Pair, 0, len(n.pairs))
	transients := make([]Pair, 0)

	for _, p := range n.pairs {
		if transientPair(g, n, p) {
			transients = append(transients, p)
		} else {
			deadlocks = append(deadlocks, p)
		}
	}

	n.deadlocks = len(deadlocks)
	n.pairs = append(deadlocks, transients...)
}

// transientPair reports whether p can move without partner help. Seeing
// a final state with nothing pending marks the node final as a side effect.
func transientPair(g *inner.Graph, n *Node, p Pair) bool {
	if g.IsFinal(p.State) && p.Marking.Unmarked() {
		n.final = true
		n.finalReachable = true
	}
	if !g.IsWaitstate(p.State) {
		return true
	}
	a := g.Alphabet()
	for l := a.FirstSend(); l <= a.LastSend(); l++ {
		if p.Marking.Marked(l) && g.Receives(p.State, l) {
			return true
		}
	}
	return false
}

func hashPairs(pairs []Pair) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, p := range pairs {
		buf = buf[:0]
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(p.State>>(8*i)))
		}
		buf = p.Marking.AppendBinary(buf)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

// equal compares content pairwise.
func (n *Node) equal(o *Node) bool {
	if n.hash != o.hash || len(n.pairs) != len(o.pairs) || n.deadlocks != o.deadlocks {
		return false
	}
	for i := range n.pairs {
		if n.pairs[i].State != o.pairs[i].State || !n.pairs[i].Marking.Equal(o.pairs[i].Marking) {
			return false
		}
	}
	return true
}

// ID returns the discovery number of the node, starting at 0 for the root.
func (n *Node) ID() int { return n.dfs }

// Hash returns the content hash.
func (n *Node) Hash() uint64 { return n.hash }

// Sane reports whether the node is part of a correct partner.
func (n *Node) Sane() bool { return n.sane }

// Final reports whether the node contains a final state with nothing
// pending.
func (n *Node) Final() bool { return n.final }

// FinalReachable reports whether a final node is known to be reachable.
func (n *Node) FinalReachable() bool { return n.finalReachable }

// Size returns the number of pairs.
func (n *Node) Size() int { return len(n.pairs) }

// Pairs returns all pairs, deadlocks first.
func (n *Node) Pairs() []Pair { return n.pairs }

// Deadlocks returns the pairs that need the partner to move on.
func (n *Node) Deadlocks() []Pair { return n.pairs[:n.deadlocks] }

// Transients returns the pairs that move on their own.
func (n *Node) Transients() []Pair { return n.pairs[n.deadlocks:] }

// Successor returns the slot of label l. Out of range labels report an
// unexplored slot.
func (n *Node) Successor(l label.ID) Successor {
	if l <= label.Silent || int(l) >= len(n.succ) {
		return Successor{}
	}
	return n.succ[l]
}

func (n *Node) setSuccessor(l label.ID, s Successor) {
	if l <= label.Silent || int(l) >= len(n.succ) {
		panic("space: successor label out of range")
	}
	n.succ[l] = s
}
