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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trapNet may silently send a and get stuck in p1.
const trapNet = `
PLACE INTERNAL p0, p1, p2; OUTPUT a;
INITIALMARKING p0;
FINALMARKING p2;
TRANSITION t1 CONSUME p0; PRODUCE p1, a;
TRANSITION t2 CONSUME p0; PRODUCE p2;
`

func TestAnalyze_Shop(t *testing.T) {
	r := generate(t, shopNet).Analyze()

	assert.Equal(t, 3, r.States)
	assert.Equal(t, 3, r.Edges)
	assert.True(t, r.AllSatisfied())
	require.Len(t, r.Properties, 3)
	assert.Equal(t, "boundedness", r.Properties[0].Property)
	assert.Equal(t, "final_reachable", r.Properties[1].Property)
	assert.Equal(t, []string{"x", "a"}, r.Properties[1].Witness)
	assert.Equal(t, "deadlock_freedom", r.Properties[2].Property)
}

func TestCheckDeadlockFreedom(t *testing.T) {
	g := generate(t, trapNet)

	res := g.CheckDeadlockFreedom()
	assert.False(t, res.Satisfied)
	assert.Equal(t, []string{"a"}, res.Witness)
	assert.Contains(t, res.Message, "state 1")
	assert.Equal(t, 3, res.StatesChecked)

	assert.False(t, g.Analyze().AllSatisfied())
}

func TestCheckFinalReachable(t *testing.T) {
	res := generate(t, trapNet).CheckFinalReachable()
	assert.True(t, res.Satisfied)
	assert.Equal(t, []string{"tau"}, res.Witness)

	res = generate(t, `
PLACE INTERNAL p; INPUT x;
INITIALMARKING p;
TRANSITION t CONSUME p, x; PRODUCE p;
`).CheckFinalReachable()
	assert.False(t, res.Satisfied)
	assert.Nil(t, res.Witness)
}

func TestCheckBoundedness(t *testing.T) {
	g := generate(t, `
PLACE INTERNAL p, q;
INITIALMARKING p:2;
TRANSITION t CONSUME p; PRODUCE q;
`)
	require.Len(t, g.States, 3)

	res := g.CheckBoundedness()
	assert.True(t, res.Satisfied)
	assert.Equal(t, "inner net is 2-bounded (max tokens at place p)", res.Message)

	dl := g.CheckDeadlockFreedom()
	assert.False(t, dl.Satisfied)
	assert.Equal(t, []string{"tau", "tau"}, dl.Witness)
}

func TestWitness(t *testing.T) {
	g := generate(t, shopNet)

	assert.Nil(t, g.Witness(0))
	assert.Equal(t, []string{"x"}, g.Witness(1))
	assert.Equal(t, []string{"x", "a"}, g.Witness(2))
	assert.Nil(t, g.Witness(42))
	assert.Nil(t, (&Graph{}).Witness(1))
}
