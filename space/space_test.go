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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/knowledge"
	"github.com/jazzpetri/partner/label"
)

type state struct {
	id     int
	final  bool
	labels []string
	succs  []int
}

// makeGraph builds an inner graph over receive {a}, send {x, y}, sync {s}.
func makeGraph(t *testing.T, opts inner.Options, states ...state) *inner.Graph {
	t.Helper()
	alpha, err := label.New([]string{"a"}, []string{"x", "y"}, []string{"s"})
	require.NoError(t, err)

	b := inner.NewBuilder(alpha)
	for _, s := range states {
		require.NoError(t, b.AddNamed(s.id, s.final, s.labels, s.succs))
	}
	g, err := b.Finalize(opts)
	require.NoError(t, err)
	return g
}

func explore(t *testing.T, g *inner.Graph, bound int, opts Options) *Space {
	t.Helper()
	k, err := knowledge.Initial(g, bound)
	require.NoError(t, err)
	s := New(g, opts)
	s.Explore(k)
	s.Traverse()
	return s
}

func lbl(t *testing.T, g *inner.Graph, name string) label.ID {
	t.Helper()
	l, ok := g.Alphabet().ID(name)
	require.True(t, ok, name)
	return l
}

// makeSendNet: the net puts a on its output place and terminates.
func makeSendNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"a"}, succs: []int{1}},
		state{id: 1, final: true},
	)
}

// makePingPongNet: a final state that, after receiving x, answers a and
// returns.
func makePingPongNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.DefaultOptions(),
		state{id: 0, final: true, labels: []string{"x"}, succs: []int{1}},
		state{id: 1, labels: []string{"a"}, succs: []int{0}},
	)
}

// makeLoopNet is makePingPongNet without a final state.
func makeLoopNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.Options{},
		state{id: 0, labels: []string{"x"}, succs: []int{1}},
		state{id: 1, labels: []string{"a"}, succs: []int{0}},
	)
}

func TestExplore_TrivialSendNet(t *testing.T) {
	g := makeSendNet(t)
	s := explore(t, g, 1, Options{})
	a := lbl(t, g, "a")

	root := s.Root()
	require.True(t, root.Sane())
	require.Len(t, s.Seen(), 2)

	slot := root.Successor(a)
	require.Equal(t, Stored, slot.Kind)
	assert.True(t, slot.Node.Sane())
	assert.True(t, slot.Node.Final())

	after := slot.Node
	assert.Equal(t, Empty, after.Successor(a).Kind)
	assert.Equal(t, "a", s.Formula(root).String())
	assert.Equal(t, "final", s.Formula(after).String())

	assert.Len(t, root.Deadlocks(), 1)
	assert.Len(t, root.Transients(), 1)
}

func TestExplore_UnresolvableDeadlock(t *testing.T) {
	// 0 waits for x, then emits a into a non-final dead end.
	g := makeGraph(t, inner.Options{},
		state{id: 0, labels: []string{"x"}, succs: []int{1}},
		state{id: 1, labels: []string{"a"}, succs: []int{2}},
		state{id: 2},
	)
	s := explore(t, g, 1, Options{})

	root := s.Root()
	assert.False(t, root.Sane())
	assert.Equal(t, Unexplored, root.Successor(lbl(t, g, "x")).Kind)
	assert.Empty(t, s.Seen())
	// {(0,[y])} is stored but cannot resolve its deadlock either.
	assert.Equal(t, 2, s.Stats().InsaneMarked)
}

func TestExplore_InitialBadState(t *testing.T) {
	g := makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"x"}, succs: []int{1}},
		state{id: 1},
	)
	s := explore(t, g, 1, Options{})

	assert.False(t, s.Root().Sane())
	assert.Equal(t, 1, s.Stats().StoredNodes)
	assert.Empty(t, s.stack)
}

func TestExplore_NetSendsPastBound(t *testing.T) {
	g := makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"a"}, succs: []int{1}},
		state{id: 1, labels: []string{"a"}, succs: []int{2}},
		state{id: 2, final: true},
	)

	assert.False(t, explore(t, g, 1, Options{}).Root().Sane())
	assert.True(t, explore(t, g, 2, Options{}).Root().Sane())
}

func TestExplore_PartnerSendsPastBound(t *testing.T) {
	// The net consumes x twice before terminating.
	g := makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"x"}, succs: []int{1}},
		state{id: 1, labels: []string{"x"}, succs: []int{2}},
		state{id: 2, final: true},
	)
	x := lbl(t, g, "x")

	s := explore(t, g, 1, Options{})
	once := s.Root().Successor(x)
	require.Equal(t, Stored, once.Kind)
	assert.Equal(t, Unexplored, once.Node.Successor(x).Kind, "second x without a receive exceeds the bound")
	assert.Positive(t, s.Stats().InsaneBuilt)

	relaxed := explore(t, g, 2, Options{})
	assert.True(t, relaxed.Root().Sane())
	assert.Equal(t, Stored, relaxed.Root().Successor(x).Node.Successor(x).Kind)
}

func TestExplore_HashConsing(t *testing.T) {
	g := makePingPongNet(t)
	s := explore(t, g, 1, Options{})
	x, a := lbl(t, g, "x"), lbl(t, g, "a")

	root := s.Root()
	afterX := root.Successor(x)
	require.Equal(t, Stored, afterX.Kind)

	back := afterX.Node.Successor(a)
	require.Equal(t, Stored, back.Kind)
	assert.Same(t, root, back.Node)

	initial, err := knowledge.Initial(g, 1)
	require.NoError(t, err)
	k := initial.Fire(x)
	found, ok := s.Lookup(k)
	require.True(t, ok)
	assert.Same(t, afterX.Node, found)

	found, ok = s.Lookup(k.Fire(a))
	require.True(t, ok)
	assert.Same(t, root, found)

	assert.GreaterOrEqual(t, s.Stats().NonTrivialSCCs, 1)
	assert.True(t, root.Sane())
	assert.True(t, afterX.Node.Sane())
}

func TestExplore_CycleWithoutFinalIsDeadlockFree(t *testing.T) {
	g := makeLoopNet(t)
	s := explore(t, g, 1, Options{})

	assert.True(t, s.Root().Sane())
	// root, root+x, root+y and root+y+x.
	assert.Len(t, s.Seen(), 4)
}

func TestExplore_LivelockRejectsCycleWithoutFinal(t *testing.T) {
	g := makeLoopNet(t)
	s := explore(t, g, 1, Options{Livelock: true})

	assert.False(t, s.Root().Sane())
	assert.Empty(t, s.Seen())
	assert.Equal(t, 2, s.Stats().MaxSCCSize)
	for _, n := range s.Nodes() {
		assert.False(t, n.Sane())
	}
}

func TestExplore_LivelockAcceptsCycleWithFinal(t *testing.T) {
	g := makePingPongNet(t)
	s := explore(t, g, 1, Options{Livelock: true})

	require.True(t, s.Root().Sane())
	for _, n := range s.Seen() {
		assert.True(t, n.FinalReachable())
	}
}

// makeBrokenCycleNet yields the knowledge cycle
//
//	{(0,[])} -s-> {(1,[])} -s-> {(2,[]),(3,[])} -s-> {(0,[])}
//
// where (3,[]) waits forever and (1,[]) only moves on s. Every send runs
// into the dead end 9.
func makeBrokenCycleNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.Options{},
		state{id: 0, final: true, labels: []string{"s", "x", "y"}, succs: []int{1, 9, 9}},
		state{id: 1, labels: []string{"s", "x", "y"}, succs: []int{2, 9, 9}},
		state{id: 2, labels: []string{"tau", "s"}, succs: []int{3, 0}},
		state{id: 3, labels: []string{"x", "y"}, succs: []int{9, 9}},
		state{id: 9},
	)
}

func TestExplore_CycleWithInsaneMember(t *testing.T) {
	g := makeBrokenCycleNet(t)
	sync := lbl(t, g, "s")
	s := explore(t, g, 1, Options{})

	root := s.Root()
	q := root.Successor(sync)
	require.Equal(t, Stored, q.Kind)
	r := q.Node.Successor(sync)
	require.Equal(t, Stored, r.Kind)
	require.Equal(t, Stored, r.Node.Successor(sync).Kind)
	require.Same(t, root, r.Node.Successor(sync).Node)

	st := s.Stats()
	assert.Equal(t, 3, st.StoredNodes)
	assert.Equal(t, 1, st.NonTrivialSCCs)
	assert.Equal(t, 3, st.MaxSCCSize)
	assert.Equal(t, 6, st.InsaneBuilt, "every send hits the dead end")

	assert.True(t, root.Sane(), "the final member needs no successor")
	assert.False(t, r.Node.Sane(), "(3,[]) is never resolved")
	assert.False(t, q.Node.Sane(), "(1,[]) depends on the insane member")

	insane := 0
	for _, n := range s.Nodes() {
		if !n.Sane() {
			insane++
		}
	}
	assert.Equal(t, 2, insane)
	assert.Equal(t, insane, st.InsaneMarked, "each node is marked at most once")

	require.Len(t, s.Seen(), 1)
	assert.Same(t, root, s.Seen()[0])

	// Traversing again must not revive anything.
	s.Traverse()
	assert.False(t, q.Node.Sane())
	assert.False(t, r.Node.Sane())
	assert.Equal(t, 2, s.Stats().InsaneMarked)
}

func TestExplore_Sync(t *testing.T) {
	g := makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"s"}, succs: []int{1}},
		state{id: 1, final: true},
	)
	s := explore(t, g, 1, Options{})

	require.True(t, s.Root().Sane())
	assert.Equal(t, "s", s.Formula(s.Root()).String())
}

func TestExplore_ChoiceFormula(t *testing.T) {
	// 0 accepts x or y; y leads to a dead end.
	g := makeGraph(t, inner.Options{},
		state{id: 0, labels: []string{"x", "y"}, succs: []int{1, 2}},
		state{id: 1, final: true},
		state{id: 2},
	)
	s := explore(t, g, 1, Options{})

	require.True(t, s.Root().Sane())
	assert.Equal(t, "x", s.Formula(s.Root()).String())
	assert.Equal(t, Unexplored, s.Root().Successor(lbl(t, g, "y")).Kind)
}

// shape summarizes a seen set by discovery id and labels of sane edges.
func shape(s *Space) map[int][]string {
	out := make(map[int][]string)
	a := s.Graph().Alphabet()
	for _, n := range s.Seen() {
		var labels []string
		for l := label.Silent + 1; int(l) < a.Count(); l++ {
			if n.Successor(l).Sane() {
				labels = append(labels, a.Name(l))
			}
		}
		sort.Strings(labels)
		out[n.ID()] = labels
	}
	return out
}

func TestExplore_Deterministic(t *testing.T) {
	for name, mk := range map[string]func(*testing.T) *inner.Graph{
		"send":     makeSendNet,
		"pingpong": makePingPongNet,
		"loop":     makeLoopNet,
	} {
		t.Run(name, func(t *testing.T) {
			g := mk(t)
			first := explore(t, g, 2, Options{})
			second := explore(t, g, 2, Options{})

			assert.Equal(t, len(first.Seen()), len(second.Seen()))
			assert.Equal(t, shape(first), shape(second))
			assert.Equal(t, first.Stats(), second.Stats())
		})
	}
}

func TestExplore_BoundNeverExceeded(t *testing.T) {
	for _, bound := range []int{1, 2, 3} {
		s := explore(t, makePingPongNet(t), bound, Options{})
		for _, n := range s.Nodes() {
			for _, p := range n.Pairs() {
				for l := label.ID(1); int(l) <= p.Marking.Len(); l++ {
					assert.LessOrEqual(t, p.Marking.Count(l), bound)
				}
			}
		}
	}
}

func TestExplore_SaneNodesResolveEveryDeadlock(t *testing.T) {
	for _, g := range []*inner.Graph{makeSendNet(t), makePingPongNet(t), makeLoopNet(t)} {
		s := explore(t, g, 2, Options{})
		for _, n := range s.Nodes() {
			if !n.Sane() {
				continue
			}
			assert.True(t, s.sat(n, false))

			sendOK := false
			a := g.Alphabet()
			for l := a.FirstSend(); l <= a.LastSend(); l++ {
				sendOK = sendOK || n.Successor(l).Sane()
			}
			for _, p := range n.Deadlocks() {
				assert.True(t, sendOK || s.pairResolved(n, p, false))
			}
		}
	}
}

// makeSyncOrSendNet: the net either emits a and waits for s, or waits for s
// right away. Only s helps in both cases.
func makeSyncOrSendNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.DefaultOptions(),
		state{id: 0, labels: []string{"tau", "a"}, succs: []int{1, 1}},
		state{id: 1, labels: []string{"s"}, succs: []int{1}},
	)
}

// makeTransientSyncNet: the only way to a final state is a sync taken
// from a state that can also loop silently.
func makeTransientSyncNet(t *testing.T) *inner.Graph {
	return makeGraph(t, inner.Options{Livelock: true, DeadlockDetection: true},
		state{id: 0, labels: []string{"s", "tau"}, succs: []int{1, 0}},
		state{id: 1, final: true},
	)
}

func TestExplore_ReductionsKeepVerdict(t *testing.T) {
	reductions := map[string]Reduction{
		"ignore-unreceived":   {IgnoreUnreceivedMessages: true},
		"sequential-receive":  {SequentialReceive: true},
		"receive-before-send": {ReceiveBeforeSend: true},
		"waitstates-only":     {WaitstatesOnly: true},
		"quit-early":          {QuitEarly: true},
		"succeeding-send":     {SucceedingSend: true},
		"all": {
			IgnoreUnreceivedMessages: true, SequentialReceive: true,
			ReceiveBeforeSend: true, WaitstatesOnly: true,
			QuitEarly: true, SucceedingSend: true,
		},
	}
	nets := []struct {
		name     string
		mk       func(*testing.T) *inner.Graph
		bound    int
		livelock bool
		want     bool
	}{
		{name: "send", mk: makeSendNet, bound: 1, want: true},
		{name: "pingpong", mk: makePingPongNet, bound: 1, want: true},
		{name: "loop", mk: makeLoopNet, bound: 1, want: true},
		{name: "loop-livelock", mk: makeLoopNet, bound: 1, livelock: true, want: false},
		{name: "sync-or-send", mk: makeSyncOrSendNet, bound: 2, want: true},
		{name: "transient-sync", mk: makeTransientSyncNet, bound: 2, livelock: true, want: true},
	}

	for _, n := range nets {
		g := n.mk(t)
		full := explore(t, g, n.bound, Options{Livelock: n.livelock})
		require.Equal(t, n.want, full.Root().Sane(), n.name)

		for redName, r := range reductions {
			t.Run(n.name+"/"+redName, func(t *testing.T) {
				s := explore(t, g, n.bound, Options{Livelock: n.livelock, Reduction: r})
				assert.Equal(t, n.want, s.Root().Sane())
				assert.LessOrEqual(t, s.Stats().StoredNodes, full.Stats().StoredNodes)
			})
		}
	}
}

func TestExplore_ReceiveBeforeSendKeepsNeededSync(t *testing.T) {
	g := makeSyncOrSendNet(t)
	s := explore(t, g, 2, Options{Reduction: Reduction{ReceiveBeforeSend: true}})

	root := s.Root()
	require.True(t, root.Sane())
	assert.True(t, root.Successor(lbl(t, g, "a")).Sane())
	// Receiving a leaves (1,[]) unresolved, so the sends must be tried.
	assert.Equal(t, Stored, root.Successor(lbl(t, g, "x")).Kind)
}

func TestExplore_WaitstatesOnlyRetriesSkippedLabels(t *testing.T) {
	g := makeTransientSyncNet(t)
	s := explore(t, g, 2, Options{Livelock: true, Reduction: Reduction{WaitstatesOnly: true}})

	root := s.Root()
	require.True(t, root.Sane())
	assert.True(t, root.FinalReachable())
	assert.True(t, root.Successor(lbl(t, g, "s")).Sane())
}

func TestExplore_WaitstatesOnlySkipsWhenSane(t *testing.T) {
	g := makeSendNet(t)
	full := explore(t, g, 1, Options{})
	pruned := explore(t, g, 1, Options{Reduction: Reduction{WaitstatesOnly: true}})

	require.True(t, pruned.Root().Sane())
	assert.Equal(t, Unexplored, pruned.Root().Successor(lbl(t, g, "x")).Kind)
	assert.Equal(t, Unexplored, pruned.Root().Successor(lbl(t, g, "s")).Kind)
	assert.Less(t, pruned.Stats().StoredNodes+pruned.Stats().InsaneBuilt,
		full.Stats().StoredNodes+full.Stats().InsaneBuilt)
}

func TestExplore_IgnoreUnreceivedSkipsUselessSend(t *testing.T) {
	g := makeSendNet(t)
	full := explore(t, g, 1, Options{})
	pruned := explore(t, g, 1, Options{Reduction: Reduction{IgnoreUnreceivedMessages: true}})

	x := lbl(t, g, "x")
	assert.Equal(t, Unexplored, pruned.Root().Successor(x).Kind)
	assert.Less(t, pruned.Stats().StoredNodes+pruned.Stats().InsaneBuilt,
		full.Stats().StoredNodes+full.Stats().InsaneBuilt)
}

func TestExplore_Progress(t *testing.T) {
	var calls int
	g := makePingPongNet(t)
	explore(t, g, 2, Options{
		ProgressInterval: 1,
		OnProgress:       func(Stats) { calls++ },
	})
	assert.Positive(t, calls)
}

func TestNode_SuccessorOutOfRange(t *testing.T) {
	s := explore(t, makeSendNet(t), 1, Options{})
	assert.Equal(t, Unexplored, s.Root().Successor(label.Silent).Kind)
	assert.Equal(t, Unexplored, s.Root().Successor(99).Kind)
	assert.Panics(t, func() { s.Root().setSuccessor(99, Successor{}) })
}

func TestFormula_Format(t *testing.T) {
	f := Formula{Clauses: [][]string{{"a", "x"}, {"final"}, {}}}
	assert.Equal(t, "(a + x) * final * false", f.String())
	assert.Equal(t, "(a | x) & final & false", f.Format(" & ", " | "))
	assert.Equal(t, "true", Formula{}.String())
}
