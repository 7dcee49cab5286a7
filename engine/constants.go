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

package engine

// DefaultMessageBound is the default number of pending messages allowed per
// interface channel.
//
// A bound of 1 matches the common case of request/response protocols. Nets
// that buffer several messages on a channel need a larger bound, at the
// price of a larger knowledge space.
const DefaultMessageBound = 1

// DefaultMaxInnerStates is the default limit on the reachability graph of
// the inner net.
//
// Exceeding it usually means the inner net is unbounded. Raise it in the
// config file for large but bounded nets.
const DefaultMaxInnerStates = 100000

// DefaultProgressInterval is the number of stored knowledges between two
// progress reports.
const DefaultProgressInterval = 10000
