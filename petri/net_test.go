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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/partner/label"
)

// makeShopNet creates a small service: it waits for an order (input x),
// answers with an invoice (output a) and terminates.
//
//	p0 -> recv -> p1 -> answer -> p2
func makeShopNet(t *testing.T) *PetriNet {
	t.Helper()
	net := NewPetriNet("shop", "Shop")

	require.NoError(t, net.AddPlace(NewPlace("p0", "Idle", Internal)))
	require.NoError(t, net.AddPlace(NewPlace("p1", "Busy", Internal)))
	require.NoError(t, net.AddPlace(NewPlace("p2", "Done", Internal)))
	require.NoError(t, net.AddPlace(NewPlace("x", "order", Input)))
	require.NoError(t, net.AddPlace(NewPlace("a", "invoice", Output)))

	require.NoError(t, net.AddTransition(NewTransition("recv", "Receive order")))
	require.NoError(t, net.AddTransition(NewTransition("answer", "Send invoice")))

	require.NoError(t, net.AddArc(NewArc("a1", "p0", "recv", 1)))
	require.NoError(t, net.AddArc(NewArc("a2", "x", "recv", 1)))
	require.NoError(t, net.AddArc(NewArc("a3", "recv", "p1", 1)))
	require.NoError(t, net.AddArc(NewArc("a4", "p1", "answer", 1)))
	require.NoError(t, net.AddArc(NewArc("a5", "answer", "p2", 1)))
	require.NoError(t, net.AddArc(NewArc("a6", "answer", "a", 1)))

	net.InitialMarking = Marking{"p0": 1}
	net.FinalMarkings = []Marking{{"p2": 1}}

	require.NoError(t, net.Resolve())
	return net
}

func TestPetriNet_Resolve(t *testing.T) {
	net := makeShopNet(t)

	assert.True(t, net.Resolved())
	recv, err := net.GetTransition("recv")
	require.NoError(t, err)
	require.Len(t, recv.InputArcs(), 2)
	assert.Same(t, net.Places["p0"], recv.InputArcs()[0].Source)
	assert.Same(t, recv, recv.InputArcs()[0].Target)

	p1, err := net.GetPlace("p1")
	require.NoError(t, err)
	assert.Len(t, p1.IncomingArcs(), 1)
	assert.Len(t, p1.OutgoingArcs(), 1)

	// Idempotent.
	require.NoError(t, net.Resolve())
}

func TestPetriNet_Labels(t *testing.T) {
	net := makeShopNet(t)

	assert.Equal(t, "x", net.Transitions["recv"].Label())
	assert.Equal(t, "a", net.Transitions["answer"].Label())
	assert.True(t, net.IsNormal())

	alpha, err := net.Alphabet()
	require.NoError(t, err)
	a, _ := alpha.ID("a")
	x, _ := alpha.ID("x")
	assert.Equal(t, label.KindReceive, alpha.Kind(a))
	assert.Equal(t, label.KindSend, alpha.Kind(x))
}

func TestPetriNet_DuplicateNode(t *testing.T) {
	net := NewPetriNet("n", "n")
	require.NoError(t, net.AddPlace(NewPlace("p", "p", Internal)))

	err := net.AddTransition(NewTransition("p", "p"))
	assert.True(t, errors.Is(err, ErrMalformedNet))

	err = net.AddPlace(NewPlace("p", "p", Input))
	assert.True(t, errors.Is(err, ErrMalformedNet))
}

func TestPetriNet_AddArcRejectsBadEndpoints(t *testing.T) {
	net := NewPetriNet("n", "n")
	require.NoError(t, net.AddPlace(NewPlace("p", "p", Internal)))
	require.NoError(t, net.AddPlace(NewPlace("q", "q", Internal)))
	require.NoError(t, net.AddTransition(NewTransition("t", "t")))

	assert.True(t, errors.Is(net.AddArc(NewArc("a1", "p", "q", 1)), ErrMalformedNet))
	assert.True(t, errors.Is(net.AddArc(NewArc("a2", "missing", "t", 1)), ErrMalformedNet))
	require.NoError(t, net.AddArc(NewArc("a3", "p", "t", 0)))
	assert.Equal(t, 1, net.Arcs["a3"].Weight)
	assert.True(t, errors.Is(net.AddArc(NewArc("a3", "t", "q", 1)), ErrMalformedNet))
}

func TestPetriNet_Validate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(net *PetriNet)
		want  string
	}{
		{
			name: "producing on input place",
			setup: func(net *PetriNet) {
				_ = net.AddArc(NewArc("bad", "answer", "x", 1))
			},
			want: "input place x",
		},
		{
			name: "consuming from output place",
			setup: func(net *PetriNet) {
				_ = net.AddArc(NewArc("bad", "a", "answer", 1))
			},
			want: "output place a",
		},
		{
			name: "marked interface place",
			setup: func(net *PetriNet) {
				net.InitialMarking["x"] = 1
			},
			want: "interface place x",
		},
		{
			name: "unknown place in final marking",
			setup: func(net *PetriNet) {
				net.FinalMarkings = append(net.FinalMarkings, Marking{"nowhere": 1})
			},
			want: "place nowhere does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := makeShopNet(t)
			tt.setup(net)
			err := net.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedNet))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPetriNet_NotNormal(t *testing.T) {
	net := makeShopNet(t)
	// answer now also consumes an order.
	require.NoError(t, net.AddArc(NewArc("a7", "x", "answer", 1)))
	require.NoError(t, net.Resolve())

	assert.False(t, net.IsNormal())
	err := net.CheckNormal()
	assert.True(t, errors.Is(err, ErrNotNormal))
	assert.Contains(t, err.Error(), "answer")
}

func TestPetriNet_NotNormalWeight(t *testing.T) {
	net := NewPetriNet("n", "n")
	require.NoError(t, net.AddPlace(NewPlace("p", "p", Internal)))
	require.NoError(t, net.AddPlace(NewPlace("x", "x", Input)))
	require.NoError(t, net.AddTransition(NewTransition("t", "t")))
	require.NoError(t, net.AddArc(NewArc("a1", "x", "t", 2)))
	require.NoError(t, net.Resolve())

	assert.False(t, net.IsNormal())
}

func TestPetriNet_SyncLabels(t *testing.T) {
	net := NewPetriNet("n", "n")
	require.NoError(t, net.AddTransition(NewTransition("t1", "t1").WithSync("s")))
	require.NoError(t, net.AddTransition(NewTransition("t2", "t2").WithSync("r")))
	require.NoError(t, net.AddTransition(NewTransition("t3", "t3").WithSync("s")))
	require.NoError(t, net.Resolve())

	assert.Equal(t, []string{"s", "r"}, net.SyncLabels())
	assert.Equal(t, "s", net.Transitions["t1"].Label())
	assert.True(t, net.IsNormal())

	net.Transitions["t2"].WithSync("s")
	assert.False(t, net.IsNormal())
}

func TestPetriNet_IsFinal(t *testing.T) {
	net := makeShopNet(t)

	assert.True(t, net.IsFinal(Marking{"p2": 1}))
	assert.True(t, net.IsFinal(Marking{"p0": 0, "p2": 1}))
	assert.False(t, net.IsFinal(Marking{"p2": 2}))
	assert.False(t, net.IsFinal(Marking{"p0": 1}))
}

func TestPetriNet_AddDummyTransition(t *testing.T) {
	net := NewPetriNet("empty", "empty")
	added, err := net.AddDummyTransition()
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, net.Resolve())
	assert.Len(t, net.Transitions[DummyTransition].InputArcs(), 1)

	added, err = net.AddDummyTransition()
	require.NoError(t, err)
	assert.False(t, added)
}

func TestPetriNet_AlphabetRejectsTau(t *testing.T) {
	net := NewPetriNet("n", "n")
	require.NoError(t, net.AddPlace(NewPlace(label.SilentName, "silent", Output)))

	_, err := net.Alphabet()
	assert.True(t, errors.Is(err, ErrMalformedNet))
}

func TestMarking(t *testing.T) {
	m := Marking{"b": 2, "a": 1, "c": 0}

	assert.Equal(t, "a:1,b:2", m.Key())
	assert.Equal(t, "[a, b:2]", m.String())
	assert.Equal(t, 3, m.Tokens())
	assert.True(t, m.Equal(Marking{"a": 1, "b": 2}))

	c := m.Copy()
	c["a"] = 5
	assert.Equal(t, 1, m["a"])
}

func TestPetriNet_String(t *testing.T) {
	s := makeShopNet(t).String()
	assert.True(t, strings.HasPrefix(s, "PetriNet[shop:"))
	assert.Contains(t, s, "in=1 out=1")
	assert.Contains(t, s, "resolved]")
}

func TestPetriNet_ToDOT(t *testing.T) {
	dot := makeShopNet(t).ToDOT()

	assert.True(t, strings.HasPrefix(dot, "digraph \"Shop\" {"))
	assert.Contains(t, dot, "\"p0\" [label=\"Idle\\n(1)\" shape=circle];")
	assert.Contains(t, dot, "\"x\" [label=\"order\" shape=circle style=dashed color=blue];")
	assert.Contains(t, dot, "\"answer\" -> \"a\";")
	assert.Less(t, strings.Index(dot, "\"p0\""), strings.Index(dot, "\"p1\""))
}

func TestEscapeLabel(t *testing.T) {
	assert.Equal(t, `a\"b\\c\nd`, EscapeLabel("a\"b\\c\nd"))
}
