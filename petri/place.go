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

// Package petri provides the open net model: a place/transition net whose
// interface places connect it to a partner service.
//
// Interface places come in two kinds. An input place receives messages the
// partner sends; an output place holds messages for the partner to receive.
// Transitions may additionally carry synchronous labels, which fire jointly
// with a partner transition of the same name.
//
// The net uses a hybrid graph structure: ID references for construction and
// parsing, direct pointers after Resolve().
package petri

import "fmt"

// PlaceKind distinguishes internal places from the two interface kinds.
type PlaceKind int

const (
	// Internal places are invisible to the partner.
	Internal PlaceKind = iota

	// Input places receive messages sent by the partner.
	Input

	// Output places hold messages for the partner.
	Output
)

// String returns the keyword used for the kind in the net text format.
func (k PlaceKind) String() string {
	switch k {
	case Internal:
		return "INTERNAL"
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	default:
		return fmt.Sprintf("PlaceKind(%d)", int(k))
	}
}

// Place is a place of an open net.
type Place struct {
	// ID is the unique identifier for this place
	ID string

	// Name is the human-readable name
	Name string

	// Kind tells whether the place is internal or part of the interface
	Kind PlaceKind

	// IncomingArcIDs stores arc IDs (transition -> place)
	IncomingArcIDs []string

	// OutgoingArcIDs stores arc IDs (place -> transition)
	OutgoingArcIDs []string

	incomingArcs []*Arc
	outgoingArcs []*Arc

	resolved bool
}

// NewPlace creates a place of the given kind.
func NewPlace(id, name string, kind PlaceKind) *Place {
	return &Place{
		ID:   id,
		Name: name,
		Kind: kind,
	}
}

// IsInterface reports whether the place is an input or output place.
func (p *Place) IsInterface() bool {
	return p.Kind == Input || p.Kind == Output
}

// IncomingArcs returns the resolved incoming arcs.
// Only available after PetriNet.Resolve() has been called.
func (p *Place) IncomingArcs() []*Arc {
	return p.incomingArcs
}

// OutgoingArcs returns the resolved outgoing arcs.
// Only available after PetriNet.Resolve() has been called.
func (p *Place) OutgoingArcs() []*Arc {
	return p.outgoingArcs
}

// String returns a human-readable representation of the place for debugging.
func (p *Place) String() string {
	return fmt.Sprintf("Place[%s: %q %s]", p.ID, p.Name, p.Kind)
}
