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

import "github.com/jazzpetri/partner/label"

// resolves reports whether slot may resolve a deadlock. With checkOnStack
// set, nodes whose component is still open do not count yet.
func (s *Space) resolves(slot Successor, checkOnStack bool) bool {
	if !slot.Sane() {
		return false
	}
	if checkOnStack && slot.Node.onStack {
		return false
	}
	if s.opts.Livelock && !slot.Node.finalReachable {
		return false
	}
	return true
}

// sat reports whether every deadlock pair of n is resolved by a sane
// successor or is an unmarked final state. In the livelock variant n must
// also reach a final node.
func (s *Space) sat(n *Node, checkOnStack bool) bool {
	a := s.alphabet

	for l := a.FirstSend(); l <= a.LastSend(); l++ {
		if s.resolves(n.succ[l], checkOnStack) {
			if s.opts.Livelock {
				n.finalReachable = true
			}
			return true
		}
	}

	for _, p := range n.pairs[:n.deadlocks] {
		if !s.pairResolved(n, p, checkOnStack) {
			return false
		}
	}

	if s.opts.Livelock && !n.finalReachable {
		return false
	}
	return true
}

func (s *Space) pairResolved(n *Node, p Pair, checkOnStack bool) bool {
	a := s.alphabet

	for l := a.FirstReceive(); l <= a.LastReceive(); l++ {
		if p.Marking.Marked(l) && s.resolves(n.succ[l], checkOnStack) {
			if s.opts.Livelock {
				n.finalReachable = true
			}
			return true
		}
	}
	for l := a.FirstSync(); l <= a.LastSync(); l++ {
		if s.graph.Synchronizes(p.State, l) && s.resolves(n.succ[l], checkOnStack) {
			if s.opts.Livelock {
				n.finalReachable = true
			}
			return true
		}
	}
	return s.graph.IsFinal(p.State) && p.Marking.Unmarked()
}

// evaluate pops the component rooted at n and decides the sanity of its
// members.
func (s *Space) evaluate(n *Node) {
	scc := s.pop(n)

	if len(scc) == 1 && !selfLoop(n) {
		s.stats.TrivialSCCs++
		if s.opts.Livelock {
			n.finalReachable = n.final || s.reachesFinal(n, nil)
		}
		if !s.sat(n, false) {
			s.markInsane(n)
		}
		return
	}

	s.stats.NonTrivialSCCs++
	if len(scc) > s.stats.MaxSCCSize {
		s.stats.MaxSCCSize = len(scc)
	}
	s.metrics.Observe("scc_size", float64(len(scc)))
	s.analyzeSCC(scc)
}

// analyzeSCC computes the greatest set of sane members: every member starts
// sane and members failing sat are removed, re-checking their in-component
// predecessors, until the set is stable. For livelock freedom, final
// reachability is recomputed over the surviving members and the removal
// repeats until neither changes.
func (s *Space) analyzeSCC(scc []*Node) {
	member := make(map[*Node]bool, len(scc))
	for _, m := range scc {
		member[m] = true
	}
	preds := make(map[*Node][]*Node, len(scc))
	for _, m := range scc {
		for _, slot := range m.succ {
			if slot.Kind == Stored && member[slot.Node] {
				preds[slot.Node] = append(preds[slot.Node], m)
			}
		}
	}

	for {
		if s.opts.Livelock {
			s.propagateFinalReachable(scc, member, preds)
		}
		if !s.removeInsane(scc, preds) || !s.opts.Livelock {
			break
		}
	}

	s.logger.Debug("evaluated component", map[string]interface{}{
		"size": len(scc),
		"root": scc[len(scc)-1].dfs,
		"sane": scc[len(scc)-1].sane,
	})
}

// removeInsane marks members failing sat insane and reports whether any
// member changed.
func (s *Space) removeInsane(scc []*Node, preds map[*Node][]*Node) bool {
	queued := make(map[*Node]bool, len(scc))
	queue := make([]*Node, 0, len(scc))
	for _, m := range scc {
		if m.sane {
			queue = append(queue, m)
			queued[m] = true
		}
	}

	changed := false
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		queued[m] = false

		if !m.sane || s.sat(m, false) {
			continue
		}
		s.markInsane(m)
		changed = true

		for _, p := range preds[m] {
			if p.sane && !queued[p] {
				queued[p] = true
				queue = append(queue, p)
			}
		}
	}
	return changed
}

// propagateFinalReachable recomputes final reachability for the sane
// members: a member reaches a final node if it is final, has a decided
// successor outside the component that does, or has a sane member
// successor that does.
func (s *Space) propagateFinalReachable(scc []*Node, member map[*Node]bool, preds map[*Node][]*Node) {
	var queue []*Node
	for _, m := range scc {
		m.finalReachable = m.sane && (m.final || s.reachesFinal(m, member))
		if m.finalReachable {
			queue = append(queue, m)
		}
	}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		for _, p := range preds[m] {
			if p.sane && !p.finalReachable {
				p.finalReachable = true
				queue = append(queue, p)
			}
		}
	}
}

// reachesFinal reports whether some sane successor of n outside the given
// member set is final-reachable.
func (s *Space) reachesFinal(n *Node, member map[*Node]bool) bool {
	for _, slot := range n.succ {
		if slot.Kind != Stored || member[slot.Node] || slot.Node == n {
			continue
		}
		if slot.Node.sane && slot.Node.finalReachable {
			return true
		}
	}
	return false
}

func (s *Space) markInsane(n *Node) {
	n.sane = false
	s.stats.InsaneMarked++
	s.metrics.Inc("knowledges_insane_marked_total")
}

func selfLoop(n *Node) bool {
	for l := label.Silent + 1; int(l) < len(n.succ); l++ {
		if n.succ[l].Kind == Stored && n.succ[l].Node == n {
			return true
		}
	}
	return false
}
