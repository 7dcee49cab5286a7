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
	"strings"
)

// Transition is a transition of an open net.
//
// A transition is observable by the partner when it consumes from an input
// place, produces on an output place, or carries a synchronous label. A
// normal net has at most one such connection per transition.
type Transition struct {
	// ID is the unique identifier for this transition
	ID string

	// Name is the human-readable name
	Name string

	// Sync lists the synchronous labels of the transition
	Sync []string

	// InputArcIDs stores arc IDs (place -> transition)
	InputArcIDs []string

	// OutputArcIDs stores arc IDs (transition -> place)
	OutputArcIDs []string

	inputArcs  []*Arc
	outputArcs []*Arc

	resolved bool
}

// NewTransition creates a transition without arcs or synchronous labels.
func NewTransition(id, name string) *Transition {
	return &Transition{
		ID:   id,
		Name: name,
	}
}

// WithSync appends synchronous labels and returns the transition to allow
// method chaining.
func (t *Transition) WithSync(labels ...string) *Transition {
	t.Sync = append(t.Sync, labels...)
	return t
}

// InputArcs returns the resolved input arcs.
// Only available after PetriNet.Resolve() has been called.
func (t *Transition) InputArcs() []*Arc {
	return t.inputArcs
}

// OutputArcs returns the resolved output arcs.
// Only available after PetriNet.Resolve() has been called.
func (t *Transition) OutputArcs() []*Arc {
	return t.outputArcs
}

// interfaceArcs returns the resolved arcs touching an interface place.
func (t *Transition) interfaceArcs() []*Arc {
	var arcs []*Arc
	for _, a := range t.inputArcs {
		if p := a.Place(); p != nil && p.IsInterface() {
			arcs = append(arcs, a)
		}
	}
	for _, a := range t.outputArcs {
		if p := a.Place(); p != nil && p.IsInterface() {
			arcs = append(arcs, a)
		}
	}
	return arcs
}

// IsNormal reports whether the transition touches at most one interface
// place or synchronous label, with an interface arc of weight 1.
func (t *Transition) IsNormal() bool {
	arcs := t.interfaceArcs()
	if len(arcs)+len(t.Sync) > 1 {
		return false
	}
	return len(arcs) == 0 || arcs[0].Weight == 1
}

// Label returns the name of the interface action of a normal transition:
// the interface place it touches, its synchronous label, or "" for a
// silent transition.
func (t *Transition) Label() string {
	if len(t.Sync) > 0 {
		return t.Sync[0]
	}
	if arcs := t.interfaceArcs(); len(arcs) > 0 {
		return arcs[0].Place().ID
	}
	return ""
}

// String returns a human-readable representation of the transition for debugging.
func (t *Transition) String() string {
	sync := ""
	if len(t.Sync) > 0 {
		sync = " sync=" + strings.Join(t.Sync, ",")
	}
	return fmt.Sprintf("Transition[%s: %q in=%d out=%d%s]",
		t.ID, t.Name, len(t.InputArcIDs), len(t.OutputArcIDs), sync)
}
