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

import "fmt"

// Arc connects a place to a transition or vice versa.
//
// The hybrid structure stores ID references for construction and direct
// pointers for analysis. PetriNet.Resolve() converts IDs to pointers.
type Arc struct {
	// ID is the unique identifier for this arc
	ID string

	// Weight is the number of tokens consumed (input arc) or produced
	// (output arc). 0 or negative = default weight of 1
	Weight int

	// SourceID stores the source node ID
	SourceID string

	// TargetID stores the target node ID
	TargetID string

	// Source is the resolved source node (*Place or *Transition).
	// Only available after PetriNet.Resolve() has been called
	Source interface{}

	// Target is the resolved target node (*Place or *Transition).
	// Only available after PetriNet.Resolve() has been called
	Target interface{}

	resolved bool
}

// NewArc creates a new arc connecting source to target with the specified weight.
// If weight is 0 or negative, a default weight of 1 is used.
func NewArc(id, sourceID, targetID string, weight int) *Arc {
	if weight <= 0 {
		weight = 1
	}
	return &Arc{
		ID:       id,
		SourceID: sourceID,
		TargetID: targetID,
		Weight:   weight,
	}
}

// Place returns the place end of a resolved arc.
func (a *Arc) Place() *Place {
	if p, ok := a.Source.(*Place); ok {
		return p
	}
	p, _ := a.Target.(*Place)
	return p
}

// String returns a human-readable representation of the arc for debugging.
func (a *Arc) String() string {
	return fmt.Sprintf("Arc[%s: %s -> %s weight=%d]", a.ID, a.SourceID, a.TargetID, a.Weight)
}
