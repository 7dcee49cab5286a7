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

package knowledge

import "github.com/jazzpetri/partner/label"

// ConsiderSend reports whether sending l can ever be consumed: some state
// in the bubble reaches a state that takes l from its input place.
func (k *Knowledge) ConsiderSend(l label.ID) bool {
	for s := range k.bubble {
		if k.graph.ReachableSends(s).Has(l) {
			return true
		}
	}
	return false
}

// ConsiderReceive reports whether receive l is the first pending receive
// message of at least one pair.
func (k *Knowledge) ConsiderReceive(l label.ID) bool {
	a := k.graph.Alphabet()
	for _, markings := range k.bubble {
		for _, m := range markings {
			for r := a.FirstReceive(); r <= a.LastReceive(); r++ {
				if m.Marked(r) {
					if r == l {
						return true
					}
					break
				}
			}
		}
	}
	return false
}

// ReceivingHelps reports whether some pair has a receive message pending.
func (k *Knowledge) ReceivingHelps() bool {
	a := k.graph.Alphabet()
	for _, markings := range k.bubble {
		for _, m := range markings {
			for r := a.FirstReceive(); r <= a.LastReceive(); r++ {
				if m.Marked(r) {
					return true
				}
			}
		}
	}
	return false
}

// ResolvableWaitstate reports whether some waitstate in the bubble has an
// edge labeled l.
func (k *Knowledge) ResolvableWaitstate(l label.ID) bool {
	for s := range k.bubble {
		if k.graph.IsWaitstate(s) && k.graph.HasEdge(s, l) {
			return true
		}
	}
	return false
}
