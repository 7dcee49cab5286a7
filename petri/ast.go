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

// NetFile is the syntax tree of a net file.
//
//	PLACE INTERNAL p0, p1; INPUT x; OUTPUT a; SYNCHRONOUS s;
//	INITIALMARKING p0;
//	FINALMARKING p1;
//	TRANSITION t CONSUME p0, x; PRODUCE p1, a; SYNCHRONIZE s;
type NetFile struct {
	Groups      []*PlaceGroup     `parser:"KwPlace @@*"`
	Initial     *MarkingDecl      `parser:"( KwInitialMarking @@ )?"`
	Finals      []*MarkingDecl    `parser:"( KwFinalMarking @@ )*"`
	Transitions []*TransitionDecl `parser:"@@*"`
}

// PlaceGroup declares places of one kind, or the synchronous labels.
type PlaceGroup struct {
	Kind  string   `parser:"@( KwInternal | KwInput | KwOutput | KwSynchronous )"`
	Names []string `parser:"( @Ident ( Comma @Ident )* )? Semicolon"`
}

// MarkingDecl is a list of place entries.
type MarkingDecl struct {
	Entries []*Entry `parser:"( @@ ( Comma @@ )* )? Semicolon"`
}

// Entry names a place with an optional multiplicity, as in "p:2".
type Entry struct {
	Place string `parser:"@Ident"`
	Count int    `parser:"( Colon @Integer )?"`
}

// Weight returns the multiplicity, 1 when omitted.
func (e *Entry) Weight() int {
	if e.Count <= 0 {
		return 1
	}
	return e.Count
}

// TransitionDecl declares one transition.
type TransitionDecl struct {
	Name    string   `parser:"KwTransition @Ident"`
	Consume []*Entry `parser:"KwConsume ( @@ ( Comma @@ )* )? Semicolon"`
	Produce []*Entry `parser:"KwProduce ( @@ ( Comma @@ )* )? Semicolon"`
	Sync    []string `parser:"( KwSynchronize ( @Ident ( Comma @Ident )* )? Semicolon )?"`
}
