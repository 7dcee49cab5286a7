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

// Package label assigns dense integer ids to the communication actions of an
// open net.
//
// Ids are laid out in four contiguous ranges:
//
//	0                      silent (internal) action
//	FirstReceive..LastReceive  the partner receives a message (net output place)
//	FirstSend..LastSend        the partner sends a message (net input place)
//	FirstSync..LastSync        synchronous action shared with the partner
//
// All directions are seen from the partner. The range boundaries double as
// loop bounds wherever the checker iterates over actions of one kind; an
// empty range has Last < First.
package label

import (
	"errors"
	"fmt"
)

// ID identifies a label. Silent is always 0.
type ID int

// Silent is the id of the internal action.
const Silent ID = 0

// SilentName is the reserved name of the internal action in graph files.
const SilentName = "tau"

// ErrDuplicateLabel is returned when two interface channels share a name.
var ErrDuplicateLabel = errors.New("duplicate label")

// Kind classifies a label id.
type Kind int

const (
	// KindSilent is the internal action.
	KindSilent Kind = iota
	// KindReceive is a message the partner receives.
	KindReceive
	// KindSend is a message the partner sends.
	KindSend
	// KindSync is a synchronous action.
	KindSync
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSilent:
		return "silent"
	case KindReceive:
		return "receive"
	case KindSend:
		return "send"
	case KindSync:
		return "sync"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Alphabet is the immutable label table of one net.
type Alphabet struct {
	names []string
	index map[string]ID

	firstReceive, lastReceive ID
	firstSend, lastSend       ID
	firstSync, lastSync       ID
}

// New builds an alphabet from the channel names of a net. receive holds the
// net's output places, send its input places and sync its synchronous
// labels. Ids follow the given order within each range.
func New(receive, send, sync []string) (*Alphabet, error) {
	a := &Alphabet{
		names: make([]string, 0, 1+len(receive)+len(send)+len(sync)),
		index: make(map[string]ID),
	}
	a.names = append(a.names, SilentName)

	add := func(name string) error {
		if name == "" {
			return fmt.Errorf("empty label name")
		}
		if name == SilentName {
			return fmt.Errorf("label %q is reserved for the silent action", name)
		}
		if _, exists := a.index[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateLabel, name)
		}
		a.index[name] = ID(len(a.names))
		a.names = append(a.names, name)
		return nil
	}

	a.firstReceive = ID(len(a.names))
	for _, n := range receive {
		if err := add(n); err != nil {
			return nil, err
		}
	}
	a.lastReceive = ID(len(a.names)) - 1

	a.firstSend = ID(len(a.names))
	for _, n := range send {
		if err := add(n); err != nil {
			return nil, err
		}
	}
	a.lastSend = ID(len(a.names)) - 1

	a.firstSync = ID(len(a.names))
	for _, n := range sync {
		if err := add(n); err != nil {
			return nil, err
		}
	}
	a.lastSync = ID(len(a.names)) - 1

	return a, nil
}

// Count returns the number of ids including the silent one.
func (a *Alphabet) Count() int { return len(a.names) }

// Async returns the number of asynchronous (receive and send) labels.
func (a *Alphabet) Async() int { return int(a.lastSend) }

// FirstReceive returns the first receive id.
func (a *Alphabet) FirstReceive() ID { return a.firstReceive }

// LastReceive returns the last receive id.
func (a *Alphabet) LastReceive() ID { return a.lastReceive }

// FirstSend returns the first send id.
func (a *Alphabet) FirstSend() ID { return a.firstSend }

// LastSend returns the last send id.
func (a *Alphabet) LastSend() ID { return a.lastSend }

// FirstSync returns the first synchronous id.
func (a *Alphabet) FirstSync() ID { return a.firstSync }

// LastSync returns the last synchronous id.
func (a *Alphabet) LastSync() ID { return a.lastSync }

// IsReceive reports whether id is a receive label.
func (a *Alphabet) IsReceive(id ID) bool { return id >= a.firstReceive && id <= a.lastReceive }

// IsSend reports whether id is a send label.
func (a *Alphabet) IsSend(id ID) bool { return id >= a.firstSend && id <= a.lastSend }

// IsSync reports whether id is a synchronous label.
func (a *Alphabet) IsSync(id ID) bool { return id >= a.firstSync && id <= a.lastSync }

// Kind returns the kind of id. Ids out of range report KindSilent.
func (a *Alphabet) Kind(id ID) Kind {
	switch {
	case a.IsReceive(id):
		return KindReceive
	case a.IsSend(id):
		return KindSend
	case a.IsSync(id):
		return KindSync
	default:
		return KindSilent
	}
}

// Name returns the name of id.
func (a *Alphabet) Name(id ID) string {
	if id < 0 || int(id) >= len(a.names) {
		return fmt.Sprintf("label#%d", int(id))
	}
	return a.names[id]
}

// ID looks up a label by name. The silent name resolves to Silent.
func (a *Alphabet) ID(name string) (ID, bool) {
	if name == SilentName {
		return Silent, true
	}
	id, ok := a.index[name]
	return id, ok
}

// Names returns the names of the ids in [first, last].
func (a *Alphabet) Names(first, last ID) []string {
	if last < first {
		return nil
	}
	out := make([]string, 0, int(last-first)+1)
	for id := first; id <= last; id++ {
		out = append(out, a.names[id])
	}
	return out
}
