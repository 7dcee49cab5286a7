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

package inner

import (
	"fmt"

	"github.com/jazzpetri/partner/label"
)

// Finalize resolves all successor references and classifies every state.
// It fails with ErrUndefinedState when an edge targets a state no record
// defines. Unresolved references are only an error at this point; during
// building they are expected.
func (b *Builder) Finalize(opts Options) (*Graph, error) {
	if len(b.records) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &Graph{
		alphabet: b.alphabet,
		nodes:    make([]Node, len(b.records)),
		external: make([]int, len(b.records)),
		options:  opts,
	}

	for i, r := range b.records {
		n := &g.nodes[i]
		n.Final = r.Final
		n.Edges = make([]Edge, 0, len(r.Edges))
		n.labels = label.NewSet(b.alphabet.Count())
		for _, e := range r.Edges {
			succ, ok := b.dense[e.Succ]
			if !ok {
				return nil, fmt.Errorf("state %d: %w: %d", r.ID, ErrUndefinedState, e.Succ)
			}
			n.Edges = append(n.Edges, Edge{Label: e.Label, Succ: succ})
			n.labels.Add(e.Label)
		}
		g.external[i] = r.ID
	}

	preds := g.predecessors()
	g.markFinalReachable(preds)
	g.markBad(preds)
	g.markWaitstates()
	g.stats.SCCs = g.calcReachableSends()
	g.collectStats()

	return g, nil
}

// predecessors returns, per state, one entry for every incoming edge.
func (g *Graph) predecessors() [][]int {
	preds := make([][]int, len(g.nodes))
	for i := range g.nodes {
		for _, e := range g.nodes[i].Edges {
			preds[e.Succ] = append(preds[e.Succ], i)
		}
	}
	return preds
}

// markFinalReachable computes the backward closure of the final states.
func (g *Graph) markFinalReachable(preds [][]int) {
	var queue []int
	for i := range g.nodes {
		if g.nodes[i].Final {
			g.nodes[i].FinalReachable = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range preds[cur] {
			if !g.nodes[p].FinalReachable {
				g.nodes[p].FinalReachable = true
				queue = append(queue, p)
			}
		}
	}
}

// markBad computes the least set of bad states: non-final dead ends and,
// with deadlock detection, non-final states whose successors are all bad.
// In the livelock variant every state that cannot reach a final state is
// bad as well.
func (g *Graph) markBad(preds [][]int) {
	alive := make([]int, len(g.nodes))
	var queue []int

	for i := range g.nodes {
		n := &g.nodes[i]
		alive[i] = len(n.Edges)
		switch {
		case len(n.Edges) == 0 && !n.Final:
			n.Bad = true
		case g.options.Livelock && !n.FinalReachable:
			n.Bad = true
		}
		if n.Bad {
			queue = append(queue, i)
		}
	}

	if !g.options.DeadlockDetection {
		return
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range preds[cur] {
			n := &g.nodes[p]
			if n.Bad {
				continue
			}
			alive[p]--
			if alive[p] == 0 && !n.Final {
				n.Bad = true
				queue = append(queue, p)
			}
		}
	}
}

// markWaitstates flags states that are neither bad nor transient. A state
// is transient when it has a silent edge or can put a message on an output
// place without help.
func (g *Graph) markWaitstates() {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Bad {
			continue
		}
		transient := false
		for _, e := range n.Edges {
			if e.Label == label.Silent || g.alphabet.IsReceive(e.Label) {
				transient = true
				break
			}
		}
		n.Waitstate = !transient
	}
}

// calcReachableSends fills the reachable send labels of every state. The
// components arrive sinks first, so successors outside a component are
// complete when the component is processed. Returns the number of
// components.
func (g *Graph) calcReachableSends() int {
	comps := components(len(g.nodes), func(i int) []int {
		out := make([]int, len(g.nodes[i].Edges))
		for k, e := range g.nodes[i].Edges {
			out[k] = e.Succ
		}
		return out
	})

	for _, comp := range comps {
		for _, i := range comp {
			n := &g.nodes[i]
			n.sends = label.NewSet(g.alphabet.Count())
			for _, e := range n.Edges {
				if g.alphabet.IsSend(e.Label) {
					n.sends.Add(e.Label)
				}
			}
		}

		if len(comp) == 1 && !g.selfLoop(comp[0]) {
			n := &g.nodes[comp[0]]
			for _, e := range n.Edges {
				n.sends.Union(g.nodes[e.Succ].sends)
			}
			continue
		}
		g.sendsFixpoint(comp)
	}

	return len(comps)
}

// sendsFixpoint propagates send sets inside one component until no set
// grows. Sets only grow and are bounded by the send labels, so the
// worklist drains.
func (g *Graph) sendsFixpoint(comp []int) {
	member := make(map[int]bool, len(comp))
	for _, i := range comp {
		member[i] = true
	}
	inPreds := make(map[int][]int, len(comp))
	for _, i := range comp {
		for _, e := range g.nodes[i].Edges {
			if member[e.Succ] {
				inPreds[e.Succ] = append(inPreds[e.Succ], i)
			}
		}
	}

	queued := make(map[int]bool, len(comp))
	queue := append([]int(nil), comp...)
	for _, i := range comp {
		queued[i] = true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		queued[cur] = false

		n := &g.nodes[cur]
		grew := false
		for _, e := range n.Edges {
			if n.sends.Union(g.nodes[e.Succ].sends) {
				grew = true
			}
		}
		if !grew {
			continue
		}
		for _, p := range inPreds[cur] {
			if !queued[p] {
				queued[p] = true
				queue = append(queue, p)
			}
		}
	}
}

func (g *Graph) selfLoop(i int) bool {
	for _, e := range g.nodes[i].Edges {
		if e.Succ == i {
			return true
		}
	}
	return false
}

func (g *Graph) collectStats() {
	s := &g.stats
	s.States = len(g.nodes)
	for i := range g.nodes {
		n := &g.nodes[i]
		s.Edges += len(n.Edges)
		if n.Final {
			s.Final++
		}
		if n.Bad {
			s.Bad++
		}
		if n.Waitstate {
			s.Waitstates++
		}
	}
}
