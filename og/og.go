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

// Package og writes the sane part of an explored knowledge space as an
// operating guideline.
//
// The interface is written from the partner's point of view: INPUT lists
// the messages the partner receives (the net's output places), OUTPUT the
// messages it sends. Every sane node gets its dfs number plus one; node 0
// is the empty node, which accepts every label and is annotated "true".
//
//	INTERFACE
//	  INPUT
//	    a;
//	  OUTPUT
//	    x;
//
//	NODES
//	  1 : x
//	    x -> 2
//	  2 : a
//	    a -> 3
//	  3 : final
//	  0 : true
//	    a -> 0
//	    x -> 0
package og

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jazzpetri/partner/label"
	"github.com/jazzpetri/partner/space"
)

// ErrNotControllable is returned when the root is insane: there is no
// guideline to write.
var ErrNotControllable = errors.New("net is not controllable")

// Header is written as a leading comment block. Empty fields are skipped.
type Header struct {
	Generator  string
	Invocation string
}

// NodeID returns the number of n in the written guideline.
func NodeID(n *space.Node) int { return n.ID() + 1 }

// Write renders the operating guideline of s. Traverse must have been
// called on s.
func Write(w io.Writer, s *space.Space, h Header) error {
	root := s.Root()
	if root == nil || !root.Sane() {
		return ErrNotControllable
	}

	bw := bufio.NewWriter(w)
	a := s.Graph().Alphabet()

	if h.Generator != "" || h.Invocation != "" {
		fmt.Fprintln(bw, "{")
		if h.Generator != "" {
			fmt.Fprintf(bw, "  generator:    %s\n", h.Generator)
		}
		if h.Invocation != "" {
			fmt.Fprintf(bw, "  invocation:   %s\n", h.Invocation)
		}
		fmt.Fprint(bw, "}\n\n")
	}

	fmt.Fprintln(bw, "INTERFACE")
	writeGroup(bw, "INPUT", a.Names(a.FirstReceive(), a.LastReceive()))
	writeGroup(bw, "OUTPUT", a.Names(a.FirstSend(), a.LastSend()))
	writeGroup(bw, "SYNCHRONOUS", a.Names(a.FirstSync(), a.LastSync()))

	fmt.Fprintln(bw, "\nNODES")
	writeNode(bw, s, root)
	for _, n := range s.Seen() {
		if n != root {
			writeNode(bw, s, n)
		}
	}

	fmt.Fprintln(bw, "  0 : true")
	for l := label.ID(1); int(l) < a.Count(); l++ {
		fmt.Fprintf(bw, "    %s -> 0\n", a.Name(l))
	}
	return bw.Flush()
}

func writeGroup(w io.Writer, keyword string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n    %s;\n", keyword, strings.Join(names, ", "))
}

func writeNode(w io.Writer, s *space.Space, n *space.Node) {
	a := s.Graph().Alphabet()
	fmt.Fprintf(w, "  %d : %s\n", NodeID(n), s.Formula(n))

	for l := label.ID(1); int(l) < a.Count(); l++ {
		succ := n.Successor(l)
		switch {
		case succ.Sane():
			fmt.Fprintf(w, "    %s -> %d\n", a.Name(l), NodeID(succ.Node))
		case succ.Kind == space.Empty:
			fmt.Fprintf(w, "    %s -> 0\n", a.Name(l))
		}
	}
}
