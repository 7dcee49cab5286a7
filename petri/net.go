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
	"errors"
	"fmt"

	"github.com/jazzpetri/partner/label"
)

var (
	// ErrMalformedNet is returned when a net is structurally invalid.
	ErrMalformedNet = errors.New("malformed net")

	// ErrNotNormal is returned when some transition touches more than one
	// interface place or synchronous label.
	ErrNotNormal = errors.New("net is not normal")
)

// Names of the elements AddDummyTransition creates.
const (
	DummyPlace      = "dummy_place"
	DummyTransition = "dummy_transition"
)

// PetriNet is an open net: places, transitions and arcs together with the
// initial marking and the final markings of the internal places.
//
// Places and transitions are kept in insertion order so that every derived
// artifact (alphabet, reachability graph, DOT output) is deterministic.
type PetriNet struct {
	// ID is the unique identifier for this Petri net
	ID string

	// Name is the human-readable name
	Name string

	// Places maps place IDs to place instances
	Places map[string]*Place

	// Transitions maps transition IDs to transition instances
	Transitions map[string]*Transition

	// Arcs maps arc IDs to arc instances
	Arcs map[string]*Arc

	// InitialMarking marks internal places only
	InitialMarking Marking

	// FinalMarkings lists the accepting markings of the internal places.
	// A net without final markings never terminates properly.
	FinalMarkings []Marking

	placeOrder      []string
	transitionOrder []string
	arcOrder        []string

	resolved bool
}

// NewPetriNet creates an empty open net.
func NewPetriNet(id, name string) *PetriNet {
	return &PetriNet{
		ID:             id,
		Name:           name,
		Places:         make(map[string]*Place),
		Transitions:    make(map[string]*Transition),
		Arcs:           make(map[string]*Arc),
		InitialMarking: make(Marking),
	}
}

// AddPlace adds a place to the net.
// Returns an error if a place or transition with the same ID already exists.
func (pn *PetriNet) AddPlace(p *Place) error {
	if pn.nodeExists(p.ID) {
		return fmt.Errorf("%w: node %s already exists", ErrMalformedNet, p.ID)
	}
	pn.Places[p.ID] = p
	pn.placeOrder = append(pn.placeOrder, p.ID)
	pn.resolved = false
	return nil
}

// AddTransition adds a transition to the net.
// Returns an error if a place or transition with the same ID already exists.
func (pn *PetriNet) AddTransition(t *Transition) error {
	if pn.nodeExists(t.ID) {
		return fmt.Errorf("%w: node %s already exists", ErrMalformedNet, t.ID)
	}
	pn.Transitions[t.ID] = t
	pn.transitionOrder = append(pn.transitionOrder, t.ID)
	pn.resolved = false
	return nil
}

func (pn *PetriNet) nodeExists(id string) bool {
	_, isPlace := pn.Places[id]
	_, isTransition := pn.Transitions[id]
	return isPlace || isTransition
}

// AddArc adds an arc to the net and updates the arc ID lists on the place
// and transition it connects. Endpoints must already exist.
func (pn *PetriNet) AddArc(a *Arc) error {
	if _, exists := pn.Arcs[a.ID]; exists {
		return fmt.Errorf("%w: arc %s already exists", ErrMalformedNet, a.ID)
	}

	if place, ok := pn.Places[a.SourceID]; ok {
		trans, ok := pn.Transitions[a.TargetID]
		if !ok {
			return fmt.Errorf("%w: arc %s: target %s is not a transition", ErrMalformedNet, a.ID, a.TargetID)
		}
		place.OutgoingArcIDs = append(place.OutgoingArcIDs, a.ID)
		trans.InputArcIDs = append(trans.InputArcIDs, a.ID)
	} else if trans, ok := pn.Transitions[a.SourceID]; ok {
		place, ok := pn.Places[a.TargetID]
		if !ok {
			return fmt.Errorf("%w: arc %s: target %s is not a place", ErrMalformedNet, a.ID, a.TargetID)
		}
		trans.OutputArcIDs = append(trans.OutputArcIDs, a.ID)
		place.IncomingArcIDs = append(place.IncomingArcIDs, a.ID)
	} else {
		return fmt.Errorf("%w: arc %s: source %s does not exist", ErrMalformedNet, a.ID, a.SourceID)
	}

	pn.Arcs[a.ID] = a
	pn.arcOrder = append(pn.arcOrder, a.ID)
	pn.resolved = false
	return nil
}

// Validate checks that the net is well-formed:
//   - input places are only consumed from, output places only produced on
//   - markings mention internal places only, with non-negative counts
//   - synchronous labels do not collide with place names
func (pn *PetriNet) Validate() error {
	for _, id := range pn.placeOrder {
		p := pn.Places[id]
		if p.Kind == Input && len(p.IncomingArcIDs) > 0 {
			return fmt.Errorf("%w: input place %s has a producing transition", ErrMalformedNet, id)
		}
		if p.Kind == Output && len(p.OutgoingArcIDs) > 0 {
			return fmt.Errorf("%w: output place %s has a consuming transition", ErrMalformedNet, id)
		}
	}

	markings := append([]Marking{pn.InitialMarking}, pn.FinalMarkings...)
	for i, m := range markings {
		for id, n := range m {
			p, ok := pn.Places[id]
			if !ok {
				return fmt.Errorf("%w: marking %d: place %s does not exist", ErrMalformedNet, i, id)
			}
			if p.IsInterface() {
				return fmt.Errorf("%w: marking %d: interface place %s cannot be marked", ErrMalformedNet, i, id)
			}
			if n < 0 {
				return fmt.Errorf("%w: marking %d: negative count on %s", ErrMalformedNet, i, id)
			}
		}
	}

	for _, id := range pn.transitionOrder {
		for _, s := range pn.Transitions[id].Sync {
			if _, ok := pn.Places[s]; ok {
				return fmt.Errorf("%w: synchronous label %s is also a place", ErrMalformedNet, s)
			}
		}
	}
	return nil
}

// Resolve validates the net and converts ID references to direct pointers.
// Calling Resolve() multiple times is safe (idempotent).
func (pn *PetriNet) Resolve() error {
	if pn.resolved {
		return nil
	}
	if err := pn.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	for _, arc := range pn.Arcs {
		if place, ok := pn.Places[arc.SourceID]; ok {
			arc.Source = place
			arc.Target = pn.Transitions[arc.TargetID]
		} else {
			arc.Source = pn.Transitions[arc.SourceID]
			arc.Target = pn.Places[arc.TargetID]
		}
		arc.resolved = true
	}

	for _, place := range pn.Places {
		place.incomingArcs = pn.lookupArcs(place.IncomingArcIDs)
		place.outgoingArcs = pn.lookupArcs(place.OutgoingArcIDs)
		place.resolved = true
	}
	for _, trans := range pn.Transitions {
		trans.inputArcs = pn.lookupArcs(trans.InputArcIDs)
		trans.outputArcs = pn.lookupArcs(trans.OutputArcIDs)
		trans.resolved = true
	}

	pn.resolved = true
	return nil
}

func (pn *PetriNet) lookupArcs(ids []string) []*Arc {
	arcs := make([]*Arc, len(ids))
	for i, id := range ids {
		arcs[i] = pn.Arcs[id]
	}
	return arcs
}

// Resolved returns true if the Petri net has been resolved.
func (pn *PetriNet) Resolved() bool {
	return pn.resolved
}

// GetPlace retrieves a place by its ID.
func (pn *PetriNet) GetPlace(id string) (*Place, error) {
	if pn == nil {
		return nil, fmt.Errorf("cannot get place from nil net")
	}
	place, exists := pn.Places[id]
	if !exists {
		return nil, fmt.Errorf("place %s not found", id)
	}
	return place, nil
}

// GetTransition retrieves a transition by its ID.
func (pn *PetriNet) GetTransition(id string) (*Transition, error) {
	if pn == nil {
		return nil, fmt.Errorf("cannot get transition from nil net")
	}
	transition, exists := pn.Transitions[id]
	if !exists {
		return nil, fmt.Errorf("transition %s not found", id)
	}
	return transition, nil
}

// PlaceList returns the places in insertion order.
func (pn *PetriNet) PlaceList() []*Place {
	out := make([]*Place, len(pn.placeOrder))
	for i, id := range pn.placeOrder {
		out[i] = pn.Places[id]
	}
	return out
}

// PlacesOfKind returns the places of the given kind in insertion order.
func (pn *PetriNet) PlacesOfKind(kind PlaceKind) []*Place {
	var out []*Place
	for _, id := range pn.placeOrder {
		if p := pn.Places[id]; p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// TransitionList returns the transitions in insertion order.
func (pn *PetriNet) TransitionList() []*Transition {
	out := make([]*Transition, len(pn.transitionOrder))
	for i, id := range pn.transitionOrder {
		out[i] = pn.Transitions[id]
	}
	return out
}

// ArcList returns the arcs in insertion order.
func (pn *PetriNet) ArcList() []*Arc {
	out := make([]*Arc, len(pn.arcOrder))
	for i, id := range pn.arcOrder {
		out[i] = pn.Arcs[id]
	}
	return out
}

// SyncLabels returns the synchronous labels in order of first use.
func (pn *PetriNet) SyncLabels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range pn.transitionOrder {
		for _, s := range pn.Transitions[id].Sync {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// CheckNormal returns an error wrapping ErrNotNormal that names the first
// transition violating normality. The net must be resolved.
func (pn *PetriNet) CheckNormal() error {
	for _, t := range pn.TransitionList() {
		if !t.IsNormal() {
			return fmt.Errorf("%w: transition %s", ErrNotNormal, t.ID)
		}
	}
	return nil
}

// IsNormal reports whether every transition is normal. The net must be
// resolved.
func (pn *PetriNet) IsNormal() bool {
	return pn.CheckNormal() == nil
}

// Alphabet derives the partner's alphabet: the output places are received,
// the input places are sent, the synchronous labels are synchronized.
func (pn *PetriNet) Alphabet() (*label.Alphabet, error) {
	var receive, send []string
	for _, p := range pn.PlacesOfKind(Output) {
		receive = append(receive, p.ID)
	}
	for _, p := range pn.PlacesOfKind(Input) {
		send = append(send, p.ID)
	}
	a, err := label.New(receive, send, pn.SyncLabels())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedNet, err)
	}
	return a, nil
}

// IsFinal reports whether the internal marking m equals one of the final
// markings.
func (pn *PetriNet) IsFinal(m Marking) bool {
	key := m.Key()
	for _, f := range pn.FinalMarkings {
		if f.Key() == key {
			return true
		}
	}
	return false
}

// AddDummyTransition gives a net without transitions a dead transition
// consuming from a fresh unmarked place. It reports whether anything was
// added.
func (pn *PetriNet) AddDummyTransition() (bool, error) {
	if len(pn.Transitions) > 0 {
		return false, nil
	}
	if err := pn.AddPlace(NewPlace(DummyPlace, DummyPlace, Internal)); err != nil {
		return false, err
	}
	if err := pn.AddTransition(NewTransition(DummyTransition, DummyTransition)); err != nil {
		return false, err
	}
	if err := pn.AddArc(NewArc(DummyPlace+"->"+DummyTransition, DummyPlace, DummyTransition, 1)); err != nil {
		return false, err
	}
	return true, nil
}

// String returns a human-readable representation of the Petri net for debugging.
func (pn *PetriNet) String() string {
	resolvedStr := "not resolved"
	if pn.resolved {
		resolvedStr = "resolved"
	}
	return fmt.Sprintf("PetriNet[%s: %q places=%d (in=%d out=%d) transitions=%d arcs=%d %s]",
		pn.ID, pn.Name, len(pn.Places),
		len(pn.PlacesOfKind(Input)), len(pn.PlacesOfKind(Output)),
		len(pn.Transitions), len(pn.Arcs), resolvedStr)
}
