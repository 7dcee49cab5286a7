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

package og

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jazzpetri/partner/label"
	"github.com/jazzpetri/partner/petri"
	"github.com/jazzpetri/partner/space"
)

// DotOptions select what WriteDot draws besides the sane nodes.
type DotOptions struct {
	// ShowEmpty draws node 0 and the edges into it.
	ShowEmpty bool

	// ShowWaitstates lists the deadlock pairs of every node, marked (w).
	ShowWaitstates bool

	// ShowTransients lists the transient pairs of every node, marked (t).
	ShowTransients bool
}

// Prefix returns the action prefix of l: "?" for receive, "!" for send,
// "#" for synchronous labels.
func Prefix(a *label.Alphabet, l label.ID) string {
	switch a.Kind(l) {
	case label.KindReceive:
		return "?"
	case label.KindSend:
		return "!"
	case label.KindSync:
		return "#"
	default:
		return ""
	}
}

// WriteDot renders the operating guideline of s as a Graphviz digraph.
func WriteDot(w io.Writer, s *space.Space, opts DotOptions) error {
	root := s.Root()
	if root == nil || !root.Sane() {
		return ErrNotControllable
	}

	bw := bufio.NewWriter(w)
	a := s.Graph().Alphabet()

	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "  node [fontname=\"Helvetica\" fontsize=10];")
	fmt.Fprintln(bw, "  edge [fontname=\"Helvetica\" fontsize=10];")
	fmt.Fprintf(bw, "  init [shape=point];\n  init -> %d;\n", NodeID(root))

	if opts.ShowEmpty {
		fmt.Fprintln(bw, "  0 [label=\"true\" style=dashed];")
		for l := label.ID(1); int(l) < a.Count(); l++ {
			fmt.Fprintf(bw, "  0 -> 0 [label=\"%s\"];\n", edgeLabel(a, l))
		}
	}

	for _, n := range s.Seen() {
		fmt.Fprintf(bw, "  %d [label=\"%s\"];\n", NodeID(n), nodeLabel(s, n, opts))

		for l := label.ID(1); int(l) < a.Count(); l++ {
			succ := n.Successor(l)
			switch {
			case succ.Sane():
				fmt.Fprintf(bw, "  %d -> %d [label=\"%s\"];\n", NodeID(n), NodeID(succ.Node), edgeLabel(a, l))
			case succ.Kind == space.Empty && opts.ShowEmpty:
				fmt.Fprintf(bw, "  %d -> 0 [label=\"%s\" style=dashed];\n", NodeID(n), edgeLabel(a, l))
			}
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func edgeLabel(a *label.Alphabet, l label.ID) string {
	return petri.EscapeLabel(Prefix(a, l) + a.Name(l))
}

func nodeLabel(s *space.Space, n *space.Node, opts DotOptions) string {
	g := s.Graph()
	a := g.Alphabet()

	var sb strings.Builder
	sb.WriteString(petri.EscapeLabel(s.Formula(n).Format(" &and; ", " &or; ")))

	pair := func(p space.Pair, tag string) {
		sb.WriteString("\\n")
		sb.WriteString(petri.EscapeLabel(fmt.Sprintf("m%d %s (%s)", g.ExternalID(p.State), p.Marking.Format(a), tag)))
	}
	if opts.ShowWaitstates {
		for _, p := range n.Deadlocks() {
			pair(p, "w")
		}
	}
	if opts.ShowTransients {
		for _, p := range n.Transients() {
			pair(p, "t")
		}
	}
	return sb.String()
}
