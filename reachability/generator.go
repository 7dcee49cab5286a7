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

// Package reachability produces the inner transition system of an open net.
//
// The Generator explores the markings of the internal places breadth-first.
// Interface places are abstracted away: a transition consuming from an input
// place is enabled whenever its internal preset is, since the message is the
// partner's business. Every edge carries the interface action of the fired
// transition, or the silent label.
//
// Graphs computed elsewhere can be read from the graph file format:
//
//	INTERFACE
//	  INPUT x;
//	  OUTPUT a;
//	  SYNCHRONOUS s;
//	STATE 0
//	  x -> 1
//	STATE 1 FINAL
//
// INPUT and OUTPUT are seen from the net, like the places they stem from.
package reachability

import (
	"errors"
	"fmt"

	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/label"
	"github.com/jazzpetri/partner/observability"
	"github.com/jazzpetri/partner/petri"
)

// ErrStateLimit is returned when exploration exceeds the state limit; the
// net may be unbounded.
var ErrStateLimit = errors.New("state limit reached")

// DefaultMaxStates bounds exploration when no limit is configured.
const DefaultMaxStates = 100000

// State is one reachable internal marking.
type State struct {
	// ID is the state identifier, assigned in discovery order
	ID int

	// Marking holds the internal places only
	Marking petri.Marking

	// Final is set when Marking is one of the net's final markings
	Final bool

	// Edges are the outgoing edges, in transition order
	Edges []inner.RecordEdge
}

// Graph is the reachability graph of an open net. State 0 is initial.
type Graph struct {
	Alphabet *label.Alphabet
	States   []*State
}

// Records converts the states to builder records.
func (g *Graph) Records() []inner.Record {
	out := make([]inner.Record, len(g.States))
	for i, s := range g.States {
		out[i] = inner.Record{ID: s.ID, Final: s.Final, Edges: s.Edges}
	}
	return out
}

// Builder returns a builder holding every state of g.
func (g *Graph) Builder() (*inner.Builder, error) {
	b := inner.NewBuilder(g.Alphabet)
	for _, r := range g.Records() {
		if err := b.Add(r); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Generator explores the internal markings of a resolved open net.
type Generator struct {
	net       *petri.PetriNet
	alphabet  *label.Alphabet
	maxStates int
	logger    observability.Logger
}

// NewGenerator creates a generator for net. maxStates <= 0 selects
// DefaultMaxStates; a nil logger discards output.
//
// The net is resolved if necessary and must be normal.
func NewGenerator(net *petri.PetriNet, maxStates int, logger observability.Logger) (*Generator, error) {
	if err := net.Resolve(); err != nil {
		return nil, err
	}
	if err := net.CheckNormal(); err != nil {
		return nil, err
	}
	a, err := net.Alphabet()
	if err != nil {
		return nil, err
	}
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	if logger == nil {
		logger = &observability.NoOpLogger{}
	}
	return &Generator{
		net:       net,
		alphabet:  a,
		maxStates: maxStates,
		logger:    logger,
	}, nil
}

// Alphabet returns the partner alphabet of the net.
func (g *Generator) Alphabet() *label.Alphabet { return g.alphabet }

// Generate builds the reachability graph breadth-first.
//
// The returned Graph is always non-nil. When the limit is hit it holds the
// states found so far and the error wraps ErrStateLimit.
func (g *Generator) Generate() (*Graph, error) {
	transitions := g.net.TransitionList()
	labels := make([]label.ID, len(transitions))
	for i, t := range transitions {
		if t.Label() == "" {
			labels[i] = label.Silent
			continue
		}
		l, ok := g.alphabet.ID(t.Label())
		if !ok {
			return nil, fmt.Errorf("transition %s: %w: %s", t.ID, inner.ErrUnknownLabel, t.Label())
		}
		labels[i] = l
	}

	initial := g.internal(g.net.InitialMarking)
	graph := &Graph{Alphabet: g.alphabet}
	index := make(map[string]int)

	add := func(m petri.Marking) int {
		s := &State{ID: len(graph.States), Marking: m, Final: g.net.IsFinal(m)}
		graph.States = append(graph.States, s)
		index[m.Key()] = s.ID
		return s.ID
	}
	add(initial)

	queue := []int{0}
	for len(queue) > 0 {
		current := graph.States[queue[0]]
		queue = queue[1:]

		type edgeKey struct {
			label label.ID
			succ  int
		}
		seen := make(map[edgeKey]bool)

		for i, t := range transitions {
			if !g.enabled(t, current.Marking) {
				continue
			}
			next := g.fire(t, current.Marking)

			id, exists := index[next.Key()]
			if !exists {
				if len(graph.States) >= g.maxStates {
					return graph, fmt.Errorf("%w (%d states); net may be unbounded", ErrStateLimit, g.maxStates)
				}
				id = add(next)
				queue = append(queue, id)
			}

			k := edgeKey{labels[i], id}
			if !seen[k] {
				seen[k] = true
				current.Edges = append(current.Edges, inner.RecordEdge{Label: labels[i], Succ: id})
			}
		}
	}

	g.logger.Debug("reachability graph generated", map[string]interface{}{
		"net":    g.net.Name,
		"states": len(graph.States),
	})
	return graph, nil
}

// internal restricts m to the internal places.
func (g *Generator) internal(m petri.Marking) petri.Marking {
	out := make(petri.Marking)
	for id, n := range m {
		if p, ok := g.net.Places[id]; ok && p.Kind == petri.Internal && n > 0 {
			out[id] = n
		}
	}
	return out
}

// enabled checks the internal preset of t only. Input places are supplied
// by the partner.
func (g *Generator) enabled(t *petri.Transition, m petri.Marking) bool {
	for _, arc := range t.InputArcs() {
		p := arc.Place()
		if p.Kind == petri.Internal && m[p.ID] < arc.Weight {
			return false
		}
	}
	return true
}

// fire computes the successor marking. The original marking is not
// modified, and interface places are never recorded.
func (g *Generator) fire(t *petri.Transition, m petri.Marking) petri.Marking {
	result := m.Copy()
	for _, arc := range t.InputArcs() {
		if p := arc.Place(); p.Kind == petri.Internal {
			result[p.ID] -= arc.Weight
			if result[p.ID] == 0 {
				delete(result, p.ID)
			}
		}
	}
	for _, arc := range t.OutputArcs() {
		if p := arc.Place(); p.Kind == petri.Internal {
			result[p.ID] += arc.Weight
		}
	}
	return result
}
