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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopNet = `
{ a shop: receive an order, send an invoice }
PLACE
  INTERNAL p0, p1, p2;
  INPUT x;
  OUTPUT a;
  SYNCHRONOUS s;

INITIALMARKING p0;
FINALMARKING p2;
FINALMARKING p0:2;

TRANSITION recv
  CONSUME p0, x;
  PRODUCE p1;

TRANSITION answer
  CONSUME p1;
  PRODUCE p2, a;

TRANSITION cancel
  CONSUME p1;
  PRODUCE p2;
  SYNCHRONIZE s;
`

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	return p
}

func TestParser_Shop(t *testing.T) {
	net, err := newParser(t).ParseString("shop", shopNet)
	require.NoError(t, err)

	assert.True(t, net.Resolved())
	assert.Len(t, net.PlacesOfKind(Internal), 3)
	assert.Len(t, net.PlacesOfKind(Input), 1)
	assert.Len(t, net.PlacesOfKind(Output), 1)
	assert.Equal(t, []string{"s"}, net.SyncLabels())

	assert.Equal(t, Marking{"p0": 1}, net.InitialMarking)
	require.Len(t, net.FinalMarkings, 2)
	assert.Equal(t, Marking{"p0": 2}, net.FinalMarkings[1])

	var names []string
	for _, tr := range net.TransitionList() {
		names = append(names, tr.ID)
	}
	assert.Equal(t, []string{"recv", "answer", "cancel"}, names)

	assert.Equal(t, "x", net.Transitions["recv"].Label())
	assert.Equal(t, "a", net.Transitions["answer"].Label())
	assert.Equal(t, "s", net.Transitions["cancel"].Label())
	assert.True(t, net.IsNormal())
}

func TestParser_Weights(t *testing.T) {
	net, err := newParser(t).ParseString("w", `
PLACE INTERNAL p, q;
INITIALMARKING p:3;
TRANSITION t CONSUME p:2, p; PRODUCE q:2;
`)
	require.NoError(t, err)

	assert.Equal(t, Marking{"p": 3}, net.InitialMarking)
	assert.Empty(t, net.FinalMarkings)
	tr := net.Transitions["t"]
	require.Len(t, tr.InputArcs(), 1)
	assert.Equal(t, 3, tr.InputArcs()[0].Weight)
	assert.Equal(t, 2, tr.OutputArcs()[0].Weight)
}

func TestParser_EmptyLists(t *testing.T) {
	net, err := newParser(t).ParseString("e", `
PLACE INTERNAL; INPUT; OUTPUT;
INITIALMARKING;
FINALMARKING;
`)
	require.NoError(t, err)
	assert.Empty(t, net.Places)
	require.Len(t, net.FinalMarkings, 1)
	assert.True(t, net.IsFinal(Marking{}))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `PLACE INTERNAL p TRANSITION`},
		{"unknown place", `PLACE INTERNAL p; TRANSITION t CONSUME q; PRODUCE p;`},
		{"undeclared sync", `PLACE INTERNAL p; TRANSITION t CONSUME p; PRODUCE; SYNCHRONIZE s;`},
		{"duplicate place", `PLACE INTERNAL p; INPUT p;`},
		{"marked input", `PLACE INPUT x; INITIALMARKING x;`},
	}

	p := newParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseString(tt.name, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedNet), err.Error())
		})
	}
}

func TestParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.owfn")
	require.NoError(t, os.WriteFile(path, []byte(shopNet), 0o644))

	net, err := newParser(t).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shop", net.Name)

	_, err = newParser(t).ParseFile(filepath.Join(t.TempDir(), "missing.owfn"))
	assert.Error(t, err)
}
