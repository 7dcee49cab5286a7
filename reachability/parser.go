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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/label"
)

// ErrMalformedGraph is returned when a graph file cannot be parsed.
var ErrMalformedGraph = errors.New("malformed graph file")

// GraphLexer defines the lexical structure of the graph file format.
var GraphLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\{[^}]*\}`},
	{Name: "Whitespace", Pattern: `\s+`},

	{Name: "KwInterface", Pattern: `\bINTERFACE\b`},
	{Name: "KwInput", Pattern: `\bINPUT\b`},
	{Name: "KwOutput", Pattern: `\bOUTPUT\b`},
	{Name: "KwSynchronous", Pattern: `\bSYNCHRONOUS\b`},
	{Name: "KwState", Pattern: `\bSTATE\b`},
	{Name: "KwFinal", Pattern: `\bFINAL\b`},

	{Name: "Arrow", Pattern: `->`},
	{Name: "Integer", Pattern: `[0-9]+\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Comma", Pattern: `,`},
})

// GraphFile is the syntax tree of a graph file.
type GraphFile struct {
	Interface []*InterfaceGroup `parser:"KwInterface @@*"`
	States    []*StateDecl      `parser:"@@*"`
}

// InterfaceGroup declares labels of one kind.
type InterfaceGroup struct {
	Kind  string   `parser:"@( KwInput | KwOutput | KwSynchronous )"`
	Names []string `parser:"( @Ident ( Comma @Ident )* )? Semicolon"`
}

// StateDecl declares one state and its outgoing edges.
type StateDecl struct {
	ID    int         `parser:"KwState @Integer"`
	Final bool        `parser:"@KwFinal?"`
	Edges []*EdgeDecl `parser:"@@*"`
}

// EdgeDecl is an edge "label -> successor".
type EdgeDecl struct {
	Label string `parser:"@Ident Arrow"`
	Succ  int    `parser:"@Integer"`
}

// Parser reads graph files.
type Parser struct {
	parser *participle.Parser[GraphFile]
}

// NewParser creates a new graph file parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[GraphFile](
		participle.Lexer(GraphLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads a graph file from r and returns a builder holding its
// states, in file order. The first state is the initial state.
func (p *Parser) Parse(name string, r io.Reader) (*inner.Builder, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}
	return Load(file)
}

// ParseString reads a graph file from a string.
func (p *Parser) ParseString(name, input string) (*inner.Builder, error) {
	return p.Parse(name, strings.NewReader(input))
}

// ParseFile reads a graph file from a file path.
func (p *Parser) ParseFile(filename string) (*inner.Builder, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.Parse(filename, file)
}

// Load feeds a parsed graph into a new builder. Net outputs become receive
// labels and net inputs send labels.
func Load(file *GraphFile) (*inner.Builder, error) {
	var receive, send, sync []string
	for _, g := range file.Interface {
		switch g.Kind {
		case "INPUT":
			send = append(send, g.Names...)
		case "OUTPUT":
			receive = append(receive, g.Names...)
		default:
			sync = append(sync, g.Names...)
		}
	}
	a, err := label.New(receive, send, sync)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}

	b := inner.NewBuilder(a)
	for _, s := range file.States {
		labels := make([]string, len(s.Edges))
		succs := make([]int, len(s.Edges))
		for i, e := range s.Edges {
			labels[i] = e.Label
			succs[i] = e.Succ
		}
		if err := b.AddNamed(s.ID, s.Final, labels, succs); err != nil {
			return nil, err
		}
	}
	return b, nil
}
