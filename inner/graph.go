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

// Package inner holds the internal behavior of an open net: the reachability
// graph of its internal places, with every edge labeled by the interface
// action the fired transition performs.
//
// The graph is built in two passes. A Builder accepts state records in any
// order, so a record may name successors that are defined later. Finalize
// then checks that every reference resolved and classifies each state:
//
//   - bad: a non-final dead end, or a non-final state all of whose
//     successors are bad (an inevitable deadlock)
//   - waitstate: neither bad nor transient, so the state can only move on
//     once the partner sends a message
//   - final-reachable: some final state is reachable
//
// It also computes, per state, the send labels some reachable state can
// consume, which drives the pruning of useless partner sends.
//
// A finalized Graph is immutable.
package inner

import (
	"errors"
	"fmt"

	"github.com/jazzpetri/partner/label"
)

var (
	// ErrUndefinedState is returned when an edge targets a state that no
	// record defines.
	ErrUndefinedState = errors.New("undefined state")

	// ErrUnknownLabel is returned when an edge carries a label that is not
	// part of the alphabet.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrDuplicateState is returned when a state is defined twice.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrEmptyGraph is returned by Finalize when no state was added.
	ErrEmptyGraph = errors.New("empty graph")
)

// Edge is an outgoing edge of a state. Succ is a dense state index.
type Edge struct {
	Label label.ID
	Succ  int
}

// Record describes one state as delivered by a reachability source.
// Successors are external ids.
type Record struct {
	ID    int
	Final bool
	Edges []RecordEdge
}

// RecordEdge is an edge of a Record.
type RecordEdge struct {
	Label label.ID
	Succ  int
}

// Node is a classified state of a finalized Graph.
type Node struct {
	Final          bool
	Bad            bool
	Waitstate      bool
	FinalReachable bool
	Edges          []Edge

	labels label.Set
	sends  label.Set
}

// Options control classification.
type Options struct {
	// Livelock treats states from which no final state is reachable as bad.
	Livelock bool

	// DeadlockDetection propagates badness to inevitable deadlocks. When
	// false only dead ends are bad.
	DeadlockDetection bool
}

// DefaultOptions returns deadlock-freedom classification with inevitable
// deadlock detection enabled.
func DefaultOptions() Options {
	return Options{DeadlockDetection: true}
}

// Builder collects records before classification.
type Builder struct {
	alphabet *label.Alphabet
	records  []Record
	dense    map[int]int
}

// NewBuilder returns an empty builder for the given alphabet.
func NewBuilder(a *label.Alphabet) *Builder {
	return &Builder{
		alphabet: a,
		dense:    make(map[int]int),
	}
}

// Alphabet returns the alphabet edges are checked against.
func (b *Builder) Alphabet() *label.Alphabet { return b.alphabet }

// Add appends a record. The first record added is the initial state.
// Successors may refer to records that have not been added yet.
func (b *Builder) Add(r Record) error {
	if _, exists := b.dense[r.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateState, r.ID)
	}
	for _, e := range r.Edges {
		if e.Label < 0 || int(e.Label) >= b.alphabet.Count() {
			return fmt.Errorf("state %d: %w: id %d", r.ID, ErrUnknownLabel, int(e.Label))
		}
	}
	b.dense[r.ID] = len(b.records)
	b.records = append(b.records, r)
	return nil
}

// AddNamed appends a record whose edge labels are given by name.
func (b *Builder) AddNamed(id int, final bool, labels []string, succs []int) error {
	if len(labels) != len(succs) {
		return fmt.Errorf("state %d: %d labels for %d successors", id, len(labels), len(succs))
	}
	r := Record{ID: id, Final: final, Edges: make([]RecordEdge, 0, len(labels))}
	for i, name := range labels {
		l, ok := b.alphabet.ID(name)
		if !ok {
			return fmt.Errorf("state %d: %w: %s", id, ErrUnknownLabel, name)
		}
		r.Edges = append(r.Edges, RecordEdge{Label: l, Succ: succs[i]})
	}
	return b.Add(r)
}

// Len returns the number of records added so far.
func (b *Builder) Len() int { return len(b.records) }

// Graph is the finalized, classified inner transition system.
// State 0 is the initial state.
type Graph struct {
	alphabet *label.Alphabet
	nodes    []Node
	external []int
	options  Options
	stats    Stats
}

// Stats summarizes a classified graph.
type Stats struct {
	States     int
	Edges      int
	Final      int
	Bad        int
	Waitstates int
	SCCs       int
}

// Alphabet returns the label table.
func (g *Graph) Alphabet() *label.Alphabet { return g.alphabet }

// Len returns the number of states.
func (g *Graph) Len() int { return len(g.nodes) }

// Initial returns the initial state index.
func (g *Graph) Initial() int { return 0 }

// Options returns the classification options used by Finalize.
func (g *Graph) Options() Options { return g.options }

// Stats returns the classification statistics.
func (g *Graph) Stats() Stats { return g.stats }

// Node returns state i.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Edges returns the outgoing edges of state i.
func (g *Graph) Edges(i int) []Edge { return g.nodes[i].Edges }

// IsFinal reports whether state i is final.
func (g *Graph) IsFinal(i int) bool { return g.nodes[i].Final }

// IsBad reports whether state i is bad.
func (g *Graph) IsBad(i int) bool { return g.nodes[i].Bad }

// IsWaitstate reports whether state i is a waitstate.
func (g *Graph) IsWaitstate(i int) bool { return g.nodes[i].Waitstate }

// ExternalID returns the id state i had in its source records.
func (g *Graph) ExternalID(i int) int { return g.external[i] }

// HasEdge reports whether state i has an outgoing edge labeled l.
func (g *Graph) HasEdge(i int, l label.ID) bool { return g.nodes[i].labels.Has(l) }

// Receives reports whether state i consumes send label l, i.e. a message
// the partner sends.
func (g *Graph) Receives(i int, l label.ID) bool {
	return g.alphabet.IsSend(l) && g.nodes[i].labels.Has(l)
}

// Synchronizes reports whether state i can take synchronous label l.
func (g *Graph) Synchronizes(i int, l label.ID) bool {
	return g.alphabet.IsSync(l) && g.nodes[i].labels.Has(l)
}

// ReachableSends returns the send labels consumed by some state reachable
// from state i, including i itself.
func (g *Graph) ReachableSends(i int) label.Set { return g.nodes[i].sends }
