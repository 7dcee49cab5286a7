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

// Package clock provides the time source used to measure analysis phases.
//
// Production code uses RealTimeClock. Tests use StepClock, whose readings
// advance by a fixed step so that measured durations are deterministic.
//
//	clk := clock.NewStepClock(start, time.Millisecond)
//	t0 := clk.Now()
//	t1 := clk.Now() // t1.Sub(t0) == time.Millisecond
package clock

import (
	"sync"
	"time"
)

// Clock abstracts the current time.
// Implementations must be safe for concurrent use by multiple goroutines.
type Clock interface {
	// Now returns the current time according to this clock.
	Now() time.Time
}

// RealTimeClock reads the system wall clock.
type RealTimeClock struct{}

// NewRealTimeClock creates a new real-time clock for production use.
func NewRealTimeClock() *RealTimeClock {
	return &RealTimeClock{}
}

// Now returns time.Now().
func (r *RealTimeClock) Now() time.Time {
	return time.Now()
}

// StepClock returns start on its first reading and advances by step on
// every reading after that.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock creates a step clock.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current reading and advances the clock.
func (s *StepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.next
	s.next = s.next.Add(s.step)
	return now
}

// Readings returns how far the clock has advanced, in steps.
func (s *StepClock) Readings(start time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == 0 {
		return 0
	}
	return int(s.next.Sub(start) / s.step)
}
