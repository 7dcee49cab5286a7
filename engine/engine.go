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

// Package engine drives a controllability check from an open net (or an
// externally computed inner graph) to a verdict.
//
// # Phases
//
//  1. Generate: the reachability graph of the inner net is built.
//  2. Classify: inner states are marked bad, final-reachable or waitstate.
//  3. Explore: the knowledge space is built from the initial knowledge and
//     every strongly connected component is evaluated.
//  4. Traverse: the sane part reachable from the root is collected.
//
// The net is controllable iff the root knowledge survives exploration.
//
// # Usage Example
//
//	eng, err := engine.NewEngine(engine.DefaultConfig(), engine.Options{})
//	res, err := eng.CheckNet(net)
//	fmt.Println(res.Controllable)
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/jazzpetri/partner/clock"
	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/knowledge"
	"github.com/jazzpetri/partner/observability"
	"github.com/jazzpetri/partner/petri"
	"github.com/jazzpetri/partner/reachability"
	"github.com/jazzpetri/partner/space"
)

// Options carries the collaborators of an Engine. Nil fields get defaults:
// no-op logging and metrics, and the real-time clock.
type Options struct {
	Logger  observability.Logger
	Metrics observability.MetricsCollector
	Clock   clock.Clock

	// OnProgress, if set, is called every ProgressInterval stored
	// knowledges.
	OnProgress       func(space.Stats)
	ProgressInterval int
}

// Engine checks open nets for controllability.
// An Engine holds no per-check state and may be reused.
type Engine struct {
	config  Config
	logger  observability.Logger
	metrics observability.MetricsCollector
	clock   clock.Clock

	onProgress       func(space.Stats)
	progressInterval int
}

// NewEngine validates config and creates an engine.
func NewEngine(config Config, opts Options) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		config:           config,
		logger:           opts.Logger,
		metrics:          opts.Metrics,
		clock:            opts.Clock,
		onProgress:       opts.OnProgress,
		progressInterval: opts.ProgressInterval,
	}
	if e.logger == nil {
		e.logger = &observability.NoOpLogger{}
	}
	if e.metrics == nil {
		e.metrics = &observability.NoOpMetrics{}
	}
	if e.clock == nil {
		e.clock = clock.NewRealTimeClock()
	}
	if e.progressInterval <= 0 {
		e.progressInterval = DefaultProgressInterval
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// CheckNet generates the inner graph of net and checks it.
//
// A net without transitions gets a dead dummy transition first. The
// transition and its place are added to net itself and stay there; a
// later check of the same net finds them and adds nothing, so only the
// first Result reports DummyTransition. The net must be normal.
func (e *Engine) CheckNet(net *petri.PetriNet) (*Result, error) {
	added, err := net.AddDummyTransition()
	if err != nil {
		return nil, err
	}
	if added {
		e.logger.Info("net has no transitions, adding dead dummy transition", map[string]interface{}{
			"net": net.Name,
		})
	}

	start := e.clock.Now()
	gen, err := reachability.NewGenerator(net, e.config.MaxInnerStates, e.logger)
	if err != nil {
		return nil, err
	}
	graph, err := gen.Generate()
	if err != nil {
		return nil, err
	}
	b, err := graph.Builder()
	if err != nil {
		return nil, err
	}
	generated := e.clock.Now().Sub(start)

	e.logger.Info("read net", map[string]interface{}{
		"net":         net.Name,
		"places":      len(net.Places),
		"transitions": len(net.Transitions),
		"inputs":      len(net.PlacesOfKind(petri.Input)),
		"outputs":     len(net.PlacesOfKind(petri.Output)),
		"sync_labels": len(net.SyncLabels()),
		"states":      len(graph.States),
	})

	res, err := e.CheckGraph(net.Name, b)
	if err != nil {
		return nil, err
	}
	res.Phases.Generate = generated
	res.DummyTransition = added

	if !res.Controllable {
		res.Diagnostics = graph.Analyze()
		for _, p := range res.Diagnostics.Properties {
			if !p.Satisfied {
				e.logger.Info(p.Message, map[string]interface{}{
					"property": p.Property,
					"witness":  strings.Join(p.Witness, " "),
				})
			}
		}
	}
	return res, nil
}

// CheckGraph classifies the inner graph held by b and checks it.
func (e *Engine) CheckGraph(name string, b *inner.Builder) (*Result, error) {
	var phases Phases

	start := e.clock.Now()
	g, err := b.Finalize(e.config.innerOptions())
	if err != nil {
		return nil, fmt.Errorf("inner graph of %s: %w", name, err)
	}
	phases.Classify = e.clock.Now().Sub(start)

	is := g.Stats()
	e.metrics.Set("inner_states", float64(is.States))
	e.metrics.Set("inner_bad_states", float64(is.Bad))
	e.logger.Info("classified inner graph", map[string]interface{}{
		"states":     is.States,
		"edges":      is.Edges,
		"final":      is.Final,
		"bad":        is.Bad,
		"waitstates": is.Waitstates,
		"sccs":       is.SCCs,
	})

	sp := space.New(g, space.Options{
		Livelock:         e.config.Livelock(),
		Reduction:        e.config.reduction(),
		Logger:           e.logger,
		Metrics:          e.metrics,
		OnProgress:       e.onProgress,
		ProgressInterval: e.progressInterval,
	})

	start = e.clock.Now()
	initial, err := knowledge.Initial(g, e.config.MessageBound)
	if err != nil {
		return nil, err
	}
	root := sp.Explore(initial)
	phases.Explore = e.clock.Now().Sub(start)

	start = e.clock.Now()
	sp.Traverse()
	phases.Traverse = e.clock.Now().Sub(start)

	res := &Result{
		Name:         name,
		Controllable: root.Sane(),
		Config:       e.config,
		Inner:        is,
		Space:        sp.Stats(),
		Phases:       phases,
		space:        sp,
	}

	e.logger.Info("check finished", map[string]interface{}{
		"net":          name,
		"controllable": res.Controllable,
		"knowledges":   res.Space.StoredNodes,
		"sane":         res.Space.SaneNodes,
		"duration":     phases.Total().String(),
	})
	return res, nil
}

// Phases records the time spent in each phase.
type Phases struct {
	Generate time.Duration
	Classify time.Duration
	Explore  time.Duration
	Traverse time.Duration
}

// Total returns the sum of all phases.
func (p Phases) Total() time.Duration {
	return p.Generate + p.Classify + p.Explore + p.Traverse
}
