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
	"strings"
)

// ToDOT generates a Graphviz DOT representation of the open net. Interface
// places are drawn dashed, with tokens of the initial marking shown as a
// count.
func (pn *PetriNet) ToDOT() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph \"%s\" {\n", EscapeLabel(pn.Name)))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\"];\n\n")

	sb.WriteString("  // Places\n")
	for _, place := range pn.PlaceList() {
		label := EscapeLabel(place.Name)
		if n := pn.InitialMarking[place.ID]; n > 0 {
			label = fmt.Sprintf("%s\\n(%d)", label, n)
		}
		style := ""
		switch place.Kind {
		case Input:
			style = " style=dashed color=blue"
		case Output:
			style = " style=dashed color=red"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\" shape=circle%s];\n",
			EscapeLabel(place.ID), label, style))
	}
	sb.WriteString("\n")

	sb.WriteString("  // Transitions\n")
	for _, trans := range pn.TransitionList() {
		label := EscapeLabel(trans.Name)
		if len(trans.Sync) > 0 {
			label = fmt.Sprintf("%s\\n#%s", label, EscapeLabel(strings.Join(trans.Sync, ",")))
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\" shape=box];\n",
			EscapeLabel(trans.ID), label))
	}
	sb.WriteString("\n")

	sb.WriteString("  // Arcs\n")
	for _, arc := range pn.ArcList() {
		weight := ""
		if arc.Weight > 1 {
			weight = fmt.Sprintf(" [label=\"%d\"]", arc.Weight)
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\"%s;\n",
			EscapeLabel(arc.SourceID), EscapeLabel(arc.TargetID), weight))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// EscapeLabel escapes special characters for DOT format.
func EscapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
