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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Parser reads open nets in the net text format.
type Parser struct {
	parser *participle.Parser[NetFile]
}

// NewParser creates a new net parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[NetFile](
		participle.Lexer(NetLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads a net from r. The net is named after name and resolved.
func (p *Parser) Parse(name string, r io.Reader) (*PetriNet, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %w", ErrMalformedNet, err)
	}
	return Build(name, file)
}

// ParseString reads a net from a string.
func (p *Parser) ParseString(name, input string) (*PetriNet, error) {
	return p.Parse(name, strings.NewReader(input))
}

// ParseFile reads a net from a file path. The net is named after the file
// without its extension.
func (p *Parser) ParseFile(filename string) (*PetriNet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return p.Parse(name, file)
}

// Build turns a syntax tree into a resolved net. Repeated entries in a
// CONSUME or PRODUCE list add up.
func Build(name string, file *NetFile) (*PetriNet, error) {
	net := NewPetriNet(name, name)
	syncLabels := make(map[string]bool)

	for _, g := range file.Groups {
		if g.Kind == "SYNCHRONOUS" {
			for _, s := range g.Names {
				syncLabels[s] = true
			}
			continue
		}
		kind := Internal
		switch g.Kind {
		case "INPUT":
			kind = Input
		case "OUTPUT":
			kind = Output
		}
		for _, id := range g.Names {
			if err := net.AddPlace(NewPlace(id, id, kind)); err != nil {
				return nil, err
			}
		}
	}

	if file.Initial != nil {
		net.InitialMarking = markingOf(file.Initial)
	}
	for _, f := range file.Finals {
		net.FinalMarkings = append(net.FinalMarkings, markingOf(f))
	}

	for _, td := range file.Transitions {
		t := NewTransition(td.Name, td.Name)
		for _, s := range td.Sync {
			if !syncLabels[s] {
				return nil, fmt.Errorf("%w: transition %s: undeclared synchronous label %s",
					ErrMalformedNet, td.Name, s)
			}
			t.WithSync(s)
		}
		if err := net.AddTransition(t); err != nil {
			return nil, err
		}
		for _, a := range weights(td.Consume) {
			if err := net.AddArc(NewArc(a.place+"->"+td.Name, a.place, td.Name, a.weight)); err != nil {
				return nil, err
			}
		}
		for _, a := range weights(td.Produce) {
			if err := net.AddArc(NewArc(td.Name+"->"+a.place, td.Name, a.place, a.weight)); err != nil {
				return nil, err
			}
		}
	}

	if err := net.Resolve(); err != nil {
		return nil, err
	}
	return net, nil
}

func markingOf(d *MarkingDecl) Marking {
	m := make(Marking, len(d.Entries))
	for _, e := range d.Entries {
		m[e.Place] += e.Weight()
	}
	return m
}

type arcSpec struct {
	place  string
	weight int
}

// weights merges repeated entries, keeping the order of first mention.
func weights(entries []*Entry) []arcSpec {
	var out []arcSpec
	index := make(map[string]int)
	for _, e := range entries {
		if i, ok := index[e.Place]; ok {
			out[i].weight += e.Weight()
			continue
		}
		index[e.Place] = len(out)
		out = append(out, arcSpec{place: e.Place, weight: e.Weight()})
	}
	return out
}
