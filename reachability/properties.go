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

package reachability

import (
	"fmt"
	"sort"
)

// PropertyResult is the outcome of checking one property of the inner net.
// An unsatisfied result carries a witness: the labels along a shortest path
// from the initial state to the offending state.
type PropertyResult struct {
	// Property is the name of the property that was checked
	Property string

	// Satisfied is true if the property holds
	Satisfied bool

	// Message provides a human-readable explanation of the result
	Message string

	// Witness is the label sequence leading to the violating state, or to
	// the target state for reachability
	Witness []string

	// StatesChecked is the number of states examined
	StatesChecked int
}

// Report aggregates the property checks of one inner graph. The inner net
// properties are diagnostics: they help explain a NO verdict but do not
// decide controllability.
type Report struct {
	States     int
	Edges      int
	Properties []PropertyResult
}

// AllSatisfied returns true if every checked property holds.
func (r *Report) AllSatisfied() bool {
	for _, p := range r.Properties {
		if !p.Satisfied {
			return false
		}
	}
	return true
}

// Analyze runs the standard checks: boundedness, final reachability and
// internal deadlock freedom.
func (g *Graph) Analyze() *Report {
	r := &Report{States: len(g.States)}
	for _, s := range g.States {
		r.Edges += len(s.Edges)
	}
	r.Properties = []PropertyResult{
		g.CheckBoundedness(),
		g.CheckFinalReachable(),
		g.CheckDeadlockFreedom(),
	}
	return r
}

// CheckBoundedness reports the largest token count of any internal place.
// A completely generated graph is bounded, so the result is always
// satisfied; the message names the bound.
func (g *Graph) CheckBoundedness() PropertyResult {
	maxTokens := 0
	maxPlace := ""

	for _, s := range g.States {
		places := make([]string, 0, len(s.Marking))
		for p := range s.Marking {
			places = append(places, p)
		}
		sort.Strings(places)
		for _, p := range places {
			if n := s.Marking[p]; n > maxTokens {
				maxTokens = n
				maxPlace = p
			}
		}
	}

	message := fmt.Sprintf("inner net is %d-bounded", maxTokens)
	if maxPlace != "" {
		message = fmt.Sprintf("inner net is %d-bounded (max tokens at place %s)", maxTokens, maxPlace)
	}
	return PropertyResult{
		Property:      "boundedness",
		Satisfied:     true,
		Message:       message,
		StatesChecked: len(g.States),
	}
}

// CheckFinalReachable verifies that some final marking is reachable, with
// the shortest path to the first one found as witness.
func (g *Graph) CheckFinalReachable() PropertyResult {
	for _, s := range g.States {
		if s.Final {
			return PropertyResult{
				Property:      "final_reachable",
				Satisfied:     true,
				Message:       fmt.Sprintf("final marking %s reachable at state %d", s.Marking, s.ID),
				Witness:       g.Witness(s.ID),
				StatesChecked: len(g.States),
			}
		}
	}
	return PropertyResult{
		Property:      "final_reachable",
		Satisfied:     false,
		Message:       "no final marking is reachable, no partner can make the net terminate",
		StatesChecked: len(g.States),
	}
}

// CheckDeadlockFreedom verifies that every state without outgoing edges is
// final. Such a state is stuck whatever the partner does, so a reachable
// one often explains a NO verdict.
func (g *Graph) CheckDeadlockFreedom() PropertyResult {
	for _, s := range g.States {
		if len(s.Edges) == 0 && !s.Final {
			return PropertyResult{
				Property:      "deadlock_freedom",
				Satisfied:     false,
				Message:       fmt.Sprintf("internal deadlock at state %d: %s", s.ID, s.Marking),
				Witness:       g.Witness(s.ID),
				StatesChecked: len(g.States),
			}
		}
	}
	return PropertyResult{
		Property:      "deadlock_freedom",
		Satisfied:     true,
		Message:       "every dead state is final",
		StatesChecked: len(g.States),
	}
}

// Witness returns the labels along a shortest path from the initial state
// to state to, using breadth-first search. It returns nil for the initial
// state itself and for unreachable states.
func (g *Graph) Witness(to int) []string {
	if len(g.States) == 0 || to == g.States[0].ID {
		return nil
	}

	type pathNode struct {
		state int
		path  []string
	}

	byID := make(map[int]*State, len(g.States))
	for _, s := range g.States {
		byID[s.ID] = s
	}

	from := g.States[0].ID
	visited := map[int]bool{from: true}
	queue := []pathNode{{state: from}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		s, ok := byID[current.state]
		if !ok {
			continue
		}
		for _, e := range s.Edges {
			if visited[e.Succ] {
				continue
			}

			path := make([]string, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = g.Alphabet.Name(e.Label)

			if e.Succ == to {
				return path
			}
			visited[e.Succ] = true
			queue = append(queue, pathNode{state: e.Succ, path: path})
		}
	}
	return nil
}
