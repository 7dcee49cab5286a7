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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write renders g in the graph file format. The marking of each state is
// written as a comment.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	a := g.Alphabet

	fmt.Fprintln(bw, "INTERFACE")
	fmt.Fprintf(bw, "  INPUT %s;\n", strings.Join(a.Names(a.FirstSend(), a.LastSend()), ", "))
	fmt.Fprintf(bw, "  OUTPUT %s;\n", strings.Join(a.Names(a.FirstReceive(), a.LastReceive()), ", "))
	fmt.Fprintf(bw, "  SYNCHRONOUS %s;\n", strings.Join(a.Names(a.FirstSync(), a.LastSync()), ", "))

	for _, s := range g.States {
		fmt.Fprintf(bw, "\nSTATE %d", s.ID)
		if s.Final {
			fmt.Fprint(bw, " FINAL")
		}
		fmt.Fprintf(bw, " { %s }\n", s.Marking)
		for _, e := range s.Edges {
			fmt.Fprintf(bw, "  %s -> %d\n", a.Name(e.Label), e.Succ)
		}
	}
	return bw.Flush()
}
