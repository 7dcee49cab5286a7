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
	"strings"
)

// FinalLiteral is the literal of a clause satisfied by termination.
const FinalLiteral = "final"

// Formula is the annotation of a node in conjunctive normal form: a partner
// at this node must, for every clause, be able to perform one of the
// clause's actions (or terminate, for the final literal).
type Formula struct {
	Clauses [][]string
}

// True reports whether the formula has no clause.
func (f Formula) True() bool { return len(f.Clauses) == 0 }

// String renders the formula with "*" and "+".
func (f Formula) String() string { return f.Format(" * ", " + ") }

// Format renders the formula with the given connectives. Clauses with more
// than one literal are parenthesized.
func (f Formula) Format(and, or string) string {
	if f.True() {
		return "true"
	}
	parts := make([]string, len(f.Clauses))
	for i, c := range f.Clauses {
		switch len(c) {
		case 0:
			parts[i] = "false"
		case 1:
			parts[i] = c[0]
		default:
			parts[i] = "(" + strings.Join(c, or) + ")"
		}
	}
	return strings.Join(parts, and)
}

// Formula returns the annotation of n: one clause per deadlock pair,
// listing the sane sends, the sane receives of messages pending in that
// pair, the sane synchronous actions the pair's state can take, and the
// final literal for an unmarked final state.
func (s *Space) Formula(n *Node) Formula {
	a := s.alphabet

	var sends []string
	for l := a.FirstSend(); l <= a.LastSend(); l++ {
		if n.succ[l].Sane() {
			sends = append(sends, a.Name(l))
		}
	}

	unique := make(map[string][]string)
	for _, p := range n.Deadlocks() {
		lits := make(map[string]bool)
		for _, name := range sends {
			lits[name] = true
		}
		for l := a.FirstReceive(); l <= a.LastReceive(); l++ {
			if p.Marking.Marked(l) && n.succ[l].Sane() {
				lits[a.Name(l)] = true
			}
		}
		for l := a.FirstSync(); l <= a.LastSync(); l++ {
			if s.graph.Synchronizes(p.State, l) && n.succ[l].Sane() {
				lits[a.Name(l)] = true
			}
		}
		if s.graph.IsFinal(p.State) && p.Marking.Unmarked() {
			lits[FinalLiteral] = true
		}

		clause := make([]string, 0, len(lits))
		for lit := range lits {
			clause = append(clause, lit)
		}
		sort.Strings(clause)
		unique[strings.Join(clause, "\x00")] = clause
	}

	keys := make([]string, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := Formula{Clauses: make([][]string, 0, len(keys))}
	for _, k := range keys {
		f.Clauses = append(f.Clauses, unique[k])
	}
	return f
}
