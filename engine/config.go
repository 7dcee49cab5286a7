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

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jazzpetri/partner/iface"
	"github.com/jazzpetri/partner/inner"
	"github.com/jazzpetri/partner/space"
)

// ErrInvalidConfig is returned by Validate and LoadConfig.
var ErrInvalidConfig = errors.New("invalid configuration")

// Correctness selects the property a partner must guarantee.
type Correctness string

const (
	// Deadlock requires that the composition never reaches a deadlock
	// other than a final state with no pending messages.
	Deadlock Correctness = "deadlock"

	// Livelock additionally requires that a final state stays reachable.
	Livelock Correctness = "livelock"
)

// ReductionConfig toggles the search reductions. All are off by default.
type ReductionConfig struct {
	IgnoreUnreceivedMessages bool `yaml:"ignore_unreceived_messages"`
	SequentialReceive        bool `yaml:"sequential_receive"`
	ReceiveBeforeSend        bool `yaml:"receive_before_send"`
	WaitstatesOnly           bool `yaml:"waitstates_only"`
	QuitEarly                bool `yaml:"quit_early"`
	SucceedingSend           bool `yaml:"succeeding_send"`
}

// Config defines the analysis settings.
type Config struct {
	// MessageBound limits pending messages per channel (1..255).
	MessageBound int `yaml:"message_bound"`

	// Correctness is "deadlock" or "livelock".
	Correctness Correctness `yaml:"correctness"`

	// DeadlockDetection marks inner states that can only end in a deadlock
	// as bad up front.
	DeadlockDetection bool `yaml:"deadlock_detection"`

	// MaxInnerStates limits the reachability graph of the inner net.
	MaxInnerStates int `yaml:"max_inner_states"`

	Reduction ReductionConfig `yaml:"reduction"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MessageBound:      DefaultMessageBound,
		Correctness:       Deadlock,
		DeadlockDetection: true,
		MaxInnerStates:    DefaultMaxInnerStates,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MessageBound < 1 || c.MessageBound > iface.MaxBound {
		return fmt.Errorf("%w: message_bound %d out of range 1..%d", ErrInvalidConfig, c.MessageBound, iface.MaxBound)
	}
	if c.Correctness != Deadlock && c.Correctness != Livelock {
		return fmt.Errorf("%w: correctness %q (want %q or %q)", ErrInvalidConfig, c.Correctness, Deadlock, Livelock)
	}
	if c.MaxInnerStates <= 0 {
		return fmt.Errorf("%w: max_inner_states must be positive", ErrInvalidConfig)
	}
	return nil
}

// Livelock reports whether livelock freedom is checked.
func (c Config) Livelock() bool {
	return c.Correctness == Livelock
}

func (c Config) innerOptions() inner.Options {
	return inner.Options{
		Livelock:          c.Livelock(),
		DeadlockDetection: c.DeadlockDetection,
	}
}

func (c Config) reduction() space.Reduction {
	r := c.Reduction
	return space.Reduction{
		IgnoreUnreceivedMessages: r.IgnoreUnreceivedMessages,
		SequentialReceive:        r.SequentialReceive,
		ReceiveBeforeSend:        r.ReceiveBeforeSend,
		WaitstatesOnly:           r.WaitstatesOnly,
		QuitEarly:                r.QuitEarly,
		SucceedingSend:           r.SucceedingSend,
	}
}
