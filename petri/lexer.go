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

import "github.com/alecthomas/participle/v2/lexer"

// NetLexer defines the lexical structure of the net text format.
// Keywords are upper case; comments are enclosed in braces.
var NetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\{[^}]*\}`},
	{Name: "Whitespace", Pattern: `\s+`},

	// Sections
	{Name: "KwPlace", Pattern: `\bPLACE\b`},
	{Name: "KwInitialMarking", Pattern: `\bINITIALMARKING\b`},
	{Name: "KwFinalMarking", Pattern: `\bFINALMARKING\b`},
	{Name: "KwTransition", Pattern: `\bTRANSITION\b`},

	// Place kinds
	{Name: "KwInternal", Pattern: `\bINTERNAL\b`},
	{Name: "KwInput", Pattern: `\bINPUT\b`},
	{Name: "KwOutput", Pattern: `\bOUTPUT\b`},
	{Name: "KwSynchronous", Pattern: `\bSYNCHRONOUS\b`},

	// Transition clauses
	{Name: "KwConsume", Pattern: `\bCONSUME\b`},
	{Name: "KwProduce", Pattern: `\bPRODUCE\b`},
	{Name: "KwSynchronize", Pattern: `\bSYNCHRONIZE\b`},

	{Name: "Integer", Pattern: `[0-9]+\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},

	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Comma", Pattern: `,`},
})
