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

package engine

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/reachability"
	"github.com/jazzpetri/partner/space"
)

// Result is the outcome of one check. A non-controllable net is a result,
// not an error.
type Result struct {
	Name         string
	Controllable bool
	Config       Config

	// DummyTransition is set when CheckNet had to add a dead transition.
	DummyTransition bool

	Inner  inner.Stats
	Space  space.Stats
	Phases Phases

	// Diagnostics holds inner net properties for a NO verdict of CheckNet.
	Diagnostics *reachability.Report

	space *space.Space
}

// KnowledgeSpace returns the explored space, for output writers.
func (r *Result) KnowledgeSpace() *space.Space { return r.space }

// Verdict returns "YES" or "NO".
func (r *Result) Verdict() string {
	if r.Controllable {
		return "YES"
	}
	return "NO"
}

type resultsFile struct {
	Net             string         `yaml:"net"`
	Controllable    bool           `yaml:"controllable"`
	Correctness     Correctness    `yaml:"correctness"`
	MessageBound    int            `yaml:"message_bound"`
	DummyTransition bool           `yaml:"dummy_transition,omitempty"`
	Inner           innerSection   `yaml:"inner"`
	Knowledges      spaceSection   `yaml:"knowledges"`
	Phases          map[string]int `yaml:"phases_ms"`
}

type innerSection struct {
	States     int `yaml:"states"`
	Edges      int `yaml:"edges"`
	Final      int `yaml:"final"`
	Bad        int `yaml:"bad"`
	Waitstates int `yaml:"waitstates"`
	SCCs       int `yaml:"sccs"`
}

type spaceSection struct {
	Stored         int `yaml:"stored"`
	Sane           int `yaml:"sane"`
	InsaneBuilt    int `yaml:"insane_built"`
	InsaneMarked   int `yaml:"insane_marked"`
	Edges          int `yaml:"edges"`
	EmptyEdges     int `yaml:"empty_edges"`
	Buckets        int `yaml:"buckets"`
	HashCollisions int `yaml:"hash_collisions"`
	MaxBucketSize  int `yaml:"max_bucket_size"`
	TrivialSCCs    int `yaml:"trivial_sccs"`
	NonTrivialSCCs int `yaml:"non_trivial_sccs"`
	MaxSCCSize     int `yaml:"max_scc_size"`
	MaxNodeSize    int `yaml:"max_knowledge_size"`
}

// WriteYAML writes the verdict and statistics as a YAML document.
func (r *Result) WriteYAML(w io.Writer) error {
	doc := resultsFile{
		Net:             r.Name,
		Controllable:    r.Controllable,
		Correctness:     r.Config.Correctness,
		MessageBound:    r.Config.MessageBound,
		DummyTransition: r.DummyTransition,
		Inner: innerSection{
			States:     r.Inner.States,
			Edges:      r.Inner.Edges,
			Final:      r.Inner.Final,
			Bad:        r.Inner.Bad,
			Waitstates: r.Inner.Waitstates,
			SCCs:       r.Inner.SCCs,
		},
		Knowledges: spaceSection{
			Stored:         r.Space.StoredNodes,
			Sane:           r.Space.SaneNodes,
			InsaneBuilt:    r.Space.InsaneBuilt,
			InsaneMarked:   r.Space.InsaneMarked,
			Edges:          r.Space.StoredEdges,
			EmptyEdges:     r.Space.EmptyEdges,
			Buckets:        r.Space.Buckets,
			HashCollisions: r.Space.HashCollisions,
			MaxBucketSize:  r.Space.MaxBucketSize,
			TrivialSCCs:    r.Space.TrivialSCCs,
			NonTrivialSCCs: r.Space.NonTrivialSCCs,
			MaxSCCSize:     r.Space.MaxSCCSize,
			MaxNodeSize:    r.Space.MaxNodeSize,
		},
		Phases: map[string]int{
			"generate": int(r.Phases.Generate.Milliseconds()),
			"classify": int(r.Phases.Classify.Milliseconds()),
			"explore":  int(r.Phases.Explore.Milliseconds()),
			"traverse": int(r.Phases.Traverse.Milliseconds()),
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return enc.Close()
}
