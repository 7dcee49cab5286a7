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

// Package space builds the knowledge space of an open net and decides which
// knowledges a correct partner may reach.
//
// # Storage
//
// Every sane knowledge is converted into a Node and hash-consed: the Space
// keeps one bucket per content hash, and a fresh node is compared pairwise
// against the bucket before it is inserted. Two structurally equal
// knowledges therefore always map to the same *Node.
//
// # Exploration
//
// Explore runs a depth-first search over partner actions with Tarjan's
// algorithm interleaved. For every label it fires the knowledge, stores the
// result and descends into new nodes. When a node turns out to be the root
// of a strongly connected component, the component is popped and its
// sanity is decided:
//
//   - a single node without a self-loop is sane iff sat holds, since all
//     its successors are already decided
//   - a larger component starts optimistic and repeatedly removes members
//     that fail sat until nothing changes
//
// The search keeps an explicit frame stack, so its depth is limited by
// memory rather than the goroutine stack.
//
// A Space is not safe for concurrent use.
package space

import (
	"sort"

	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/knowledge"
	"github.com/jazzpetri/partner/label"
	"github.com/jazzpetri/partner/observability"
)

// Reduction selects optional pruning rules. All rules only cut the search;
// the zero value explores everything.
type Reduction struct {
	// IgnoreUnreceivedMessages skips sends no state can ever consume.
	IgnoreUnreceivedMessages bool

	// SequentialReceive only receives the first pending message of a pair.
	SequentialReceive bool

	// ReceiveBeforeSend stops after the receive labels while some
	// message is waiting to be received and the receives already made
	// the node sane.
	ReceiveBeforeSend bool

	// WaitstatesOnly holds back sends and syncs that no waitstate can
	// take and tries them only if the node is not sane without them.
	WaitstatesOnly bool

	// QuitEarly stops as soon as the node is known to be sane.
	QuitEarly bool

	// SucceedingSend skips the remaining sends and syncs once a send
	// made the node sane.
	SucceedingSend bool
}

// Options configure an exploration.
type Options struct {
	// Livelock requires every sane node to reach a final node.
	Livelock bool

	Reduction Reduction

	// Logger receives debug output; nil means no logging.
	Logger observability.Logger

	// Metrics receives counters; nil means no metrics.
	Metrics observability.MetricsCollector

	// OnProgress is called every ProgressInterval stored nodes.
	OnProgress       func(Stats)
	ProgressInterval int
}

// Stats collects exploration counters.
type Stats struct {
	StoredNodes    int
	StoredEdges    int
	EmptyEdges     int
	InsaneBuilt    int
	InsaneMarked   int
	SaneNodes      int
	Buckets        int
	HashCollisions int
	MaxBucketSize  int
	TrivialSCCs    int
	NonTrivialSCCs int
	MaxSCCSize     int
	MaxNodeSize    int
}

// Space owns every node of one exploration.
type Space struct {
	graph    *inner.Graph
	alphabet *label.Alphabet
	opts     Options
	logger   observability.Logger
	metrics  observability.MetricsCollector

	buckets map[uint64][]*Node
	nodes   []*Node
	stack   []*Node
	counter int

	root *Node
	seen []*Node

	stats Stats
}

// New returns an empty space over g.
func New(g *inner.Graph, opts Options) *Space {
	s := &Space{
		graph:    g,
		alphabet: g.Alphabet(),
		opts:     opts,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		buckets:  make(map[uint64][]*Node),
	}
	if s.logger == nil {
		s.logger = &observability.NoOpLogger{}
	}
	if s.metrics == nil {
		s.metrics = &observability.NoOpMetrics{}
	}
	return s
}

// Graph returns the inner graph.
func (s *Space) Graph() *inner.Graph { return s.graph }

// Root returns the root node, nil before Explore.
func (s *Space) Root() *Node { return s.root }

// Nodes returns every stored node in discovery order.
func (s *Space) Nodes() []*Node { return s.nodes }

// Seen returns the sane nodes reachable from the root over sane edges, in
// discovery order. It is filled by Traverse.
func (s *Space) Seen() []*Node { return s.seen }

// Stats returns the counters collected so far.
func (s *Space) Stats() Stats { return s.stats }

// Livelock reports whether the space checks livelock freedom.
func (s *Space) Livelock() bool { return s.opts.Livelock }

// Lookup returns the stored node equal to k, if any.
func (s *Space) Lookup(k *knowledge.Knowledge) (*Node, bool) {
	if !k.Sane() || k.Size() == 0 {
		return nil, false
	}
	return s.find(newNode(k))
}

func (s *Space) find(n *Node) (*Node, bool) {
	for _, cand := range s.buckets[n.hash] {
		if cand.equal(n) {
			return cand, true
		}
	}
	return nil, false
}

// store inserts n unless an equal node exists. New nodes get the next dfs
// number and are pushed on the Tarjan stack.
func (s *Space) store(n *Node) (*Node, bool) {
	if existing, ok := s.find(n); ok {
		return existing, false
	}

	bucket := s.buckets[n.hash]
	if len(bucket) > 0 {
		s.stats.HashCollisions++
		s.metrics.Inc("hash_collisions_total")
	} else {
		s.stats.Buckets++
	}
	bucket = append(bucket, n)
	s.buckets[n.hash] = bucket
	if len(bucket) > s.stats.MaxBucketSize {
		s.stats.MaxBucketSize = len(bucket)
	}

	n.dfs = s.counter
	n.lowlink = s.counter
	s.counter++
	n.onStack = true
	s.stack = append(s.stack, n)
	s.nodes = append(s.nodes, n)

	s.stats.StoredNodes++
	if n.Size() > s.stats.MaxNodeSize {
		s.stats.MaxNodeSize = n.Size()
	}
	s.metrics.Inc("knowledges_stored_total")

	if s.opts.OnProgress != nil && s.opts.ProgressInterval > 0 &&
		s.stats.StoredNodes%s.opts.ProgressInterval == 0 {
		s.opts.OnProgress(s.stats)
	}
	return n, true
}

// Traverse collects the sane nodes reachable from the root. An insane
// root leaves the set empty.
func (s *Space) Traverse() []*Node {
	s.seen = nil
	if s.root == nil || !s.root.sane {
		s.stats.SaneNodes = 0
		return s.seen
	}

	visited := map[*Node]bool{s.root: true}
	work := []*Node{s.root}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		s.seen = append(s.seen, n)

		for l := label.ID(len(n.succ) - 1); l > label.Silent; l-- {
			succ := n.succ[l]
			if succ.Sane() && !visited[succ.Node] {
				visited[succ.Node] = true
				work = append(work, succ.Node)
			}
		}
	}

	sortByID(s.seen)
	s.stats.SaneNodes = len(s.seen)
	s.metrics.Set("knowledges_sane", float64(len(s.seen)))
	return s.seen
}

func sortByID(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].dfs < nodes[j].dfs })
}
