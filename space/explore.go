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
	"github.com/jazzpetri/partner/knowledge"
	"github.com/jazzpetri/partner/label"
)

// frame is one level of the depth-first search.
type frame struct {
	k    *knowledge.Knowledge
	node *Node
	next label.ID

	// child is the node being explored below this frame, reached by
	// childLabel.
	child      *Node
	childLabel label.ID

	// skipSendSync is set once a send made the node sane.
	skipSendSync bool

	// deferred collects labels held back by the waitstate rule; retry
	// holds them once the node turned out not to be sane without them.
	deferred []label.ID
	retry    []label.ID
	retrying bool
}

// stop drops every label the frame has not tried yet.
func (f *frame) stop(end label.ID) {
	f.next = end
	f.deferred = nil
	f.retry = nil
}

// Explore stores the knowledge k as root and explores everything a partner
// can reach from it. The root is stored even when k is insane, so that
// Root always answers the controllability question.
func (s *Space) Explore(k *knowledge.Knowledge) *Node {
	root, _ := s.store(newNode(k))
	s.root = root

	if !root.sane {
		s.pop(root)
		s.logger.Info("initial knowledge is insane", map[string]interface{}{
			"size": k.Size(),
		})
		return root
	}

	s.run(&frame{k: k, node: root, next: label.Silent + 1})

	s.logger.Debug("exploration finished", map[string]interface{}{
		"stored":   s.stats.StoredNodes,
		"edges":    s.stats.StoredEdges,
		"root_ok":  root.sane,
		"sccs":     s.stats.TrivialSCCs + s.stats.NonTrivialSCCs,
		"max_scc":  s.stats.MaxSCCSize,
		"built_ko": s.stats.InsaneBuilt,
	})
	return root
}

// run drives the search from the given start frame until every frame has
// been closed.
func (s *Space) run(start *frame) {
	count := label.ID(s.alphabet.Count())
	calls := []*frame{start}

	for len(calls) > 0 {
		f := calls[len(calls)-1]

		if f.child != nil {
			if f.child.lowlink < f.node.lowlink {
				f.node.lowlink = f.child.lowlink
			}
			l := f.childLabel
			f.child = nil
			if s.stopAfter(f, l) {
				f.stop(count)
			}
		}

		descended := false
		for {
			l, ok := s.nextLabel(f, count)
			if !ok {
				break
			}

			if !s.admit(f, l) {
				continue
			}
			if s.opts.Reduction.ReceiveBeforeSend && !s.alphabet.IsReceive(l) &&
				f.k.ReceivingHelps() && s.sat(f.node, true) {
				f.stop(count)
				break
			}

			childK := f.k.Fire(l)
			if !childK.Sane() {
				s.stats.InsaneBuilt++
				s.metrics.Inc("knowledges_insane_built_total")
				continue
			}
			if childK.Size() == 0 {
				f.node.setSuccessor(l, Successor{Kind: Empty})
				s.stats.EmptyEdges++
				if s.stopAfter(f, l) {
					f.stop(count)
				}
				continue
			}

			stored, isNew := s.store(newNode(childK))
			f.node.setSuccessor(l, Successor{Kind: Stored, Node: stored})
			s.stats.StoredEdges++

			if isNew {
				f.child = stored
				f.childLabel = l
				calls = append(calls, &frame{k: childK, node: stored, next: label.Silent + 1})
				descended = true
				break
			}

			if stored.onStack && stored.dfs < f.node.lowlink {
				f.node.lowlink = stored.dfs
			}
			if s.stopAfter(f, l) {
				f.stop(count)
			}
		}
		if descended {
			continue
		}

		if f.node.dfs == f.node.lowlink {
			s.evaluate(f.node)
		}
		calls = calls[:len(calls)-1]
	}
}

// nextLabel returns the next label the frame should try. Labels held back
// by the waitstate rule come last and only when the node is not already
// sane without them.
func (s *Space) nextLabel(f *frame, end label.ID) (label.ID, bool) {
	if f.next < end {
		l := f.next
		f.next++
		return l, true
	}
	if !f.retrying && len(f.deferred) > 0 && !s.sat(f.node, true) {
		f.retry, f.deferred = f.deferred, nil
		f.retrying = true
	}
	if len(f.retry) == 0 {
		return 0, false
	}
	l := f.retry[0]
	f.retry = f.retry[1:]
	return l, true
}

// admit applies the filters that are decided before firing l.
func (s *Space) admit(f *frame, l label.ID) bool {
	r := s.opts.Reduction
	a := s.alphabet

	if f.skipSendSync && (a.IsSend(l) || a.IsSync(l)) {
		return false
	}
	if r.IgnoreUnreceivedMessages && a.IsSend(l) && !f.k.ConsiderSend(l) {
		return false
	}
	if r.SequentialReceive && a.IsReceive(l) && !f.k.ConsiderReceive(l) {
		return false
	}
	if r.WaitstatesOnly && !f.retrying && !a.IsReceive(l) && !f.k.ResolvableWaitstate(l) {
		f.deferred = append(f.deferred, l)
		return false
	}
	return true
}

// stopAfter applies the filters decided after l has been processed and
// reports whether the remaining labels can be skipped.
func (s *Space) stopAfter(f *frame, l label.ID) bool {
	r := s.opts.Reduction
	if r.SucceedingSend && s.alphabet.IsSend(l) && s.sat(f.node, true) &&
		(!s.opts.Livelock || f.node.finalReachable) {
		f.skipSendSync = true
	}
	return r.QuitEarly && s.sat(f.node, true)
}

// pop removes the top of the Tarjan stack down to and including n.
func (s *Space) pop(n *Node) []*Node {
	var scc []*Node
	for {
		w := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		w.onStack = false
		scc = append(scc, w)
		if w == n {
			return scc
		}
	}
}
