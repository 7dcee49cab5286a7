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

package observability

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrInvalidConfig is returned when the Prometheus configuration is invalid.
	ErrInvalidConfig = errors.New("invalid prometheus configuration")

	// ErrRegistrationFailed is returned when a metric cannot be registered,
	// typically because the name is already used by another metric type.
	ErrRegistrationFailed = errors.New("metric registration failed")
)

// PrometheusConfig configures PrometheusMetrics.
type PrometheusConfig struct {
	// Namespace is the metrics namespace. Required.
	Namespace string

	// Subsystem is the metrics subsystem. Required.
	Subsystem string

	// Registry receives the metrics. If nil, a fresh registry is created.
	Registry *prometheus.Registry

	// Buckets are the histogram buckets. If nil, exponential buckets
	// suited to component sizes are used.
	Buckets []float64
}

// DefaultPrometheusConfig returns the configuration used by the CLI.
func DefaultPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Namespace: "partner",
		Subsystem: "space",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}
}

// Validate checks that required fields are set.
func (c *PrometheusConfig) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidConfig)
	}
	if c.Subsystem == "" {
		return fmt.Errorf("%w: subsystem is required", ErrInvalidConfig)
	}
	return nil
}

// PrometheusMetrics is a MetricsCollector backed by a Prometheus registry.
// Metrics are created on first use; the metric type is fixed by the first
// method called with a name.
//
// Safe for concurrent use.
type PrometheusMetrics struct {
	config   *PrometheusConfig
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
	errs       []error
}

// NewPrometheusMetrics creates a collector. A nil config uses
// DefaultPrometheusConfig.
func NewPrometheusMetrics(config *PrometheusConfig) (*PrometheusMetrics, error) {
	if config == nil {
		config = DefaultPrometheusConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	registry := config.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	buckets := config.Buckets
	if buckets == nil {
		buckets = prometheus.ExponentialBuckets(1, 4, 10)
	}
	cfg := *config
	cfg.Buckets = buckets

	return &PrometheusMetrics{
		config:     &cfg,
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}, nil
}

// Registry returns the registry the metrics are recorded in.
func (p *PrometheusMetrics) Registry() *prometheus.Registry { return p.registry }

// Errors returns registration failures collected so far.
func (p *PrometheusMetrics) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}

// Inc increments counter name.
func (p *PrometheusMetrics) Inc(name string) {
	if c := p.counter(name); c != nil {
		c.Inc()
	}
}

// Add adds value to counter name. Negative values are ignored.
func (p *PrometheusMetrics) Add(name string, value float64) {
	if value < 0 {
		return
	}
	if c := p.counter(name); c != nil {
		c.Add(value)
	}
}

// Observe records value in histogram name.
func (p *PrometheusMetrics) Observe(name string, value float64) {
	if h := p.histogram(name); h != nil {
		h.Observe(value)
	}
}

// Set sets gauge name.
func (p *PrometheusMetrics) Set(name string, value float64) {
	if g := p.gauge(name); g != nil {
		g.Set(value)
	}
}

// WriteTextfile writes all metrics in the Prometheus text format.
func (p *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func (p *PrometheusMetrics) counter(name string) prometheus.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: p.config.Namespace,
		Subsystem: p.config.Subsystem,
		Name:      sanitize(name),
		Help:      helpFor(name),
	})
	if !p.register(name, c) {
		return nil
	}
	p.counters[name] = c
	return c
}

func (p *PrometheusMetrics) gauge(name string) prometheus.Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.gauges[name]; ok {
		return g
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: p.config.Namespace,
		Subsystem: p.config.Subsystem,
		Name:      sanitize(name),
		Help:      helpFor(name),
	})
	if !p.register(name, g) {
		return nil
	}
	p.gauges[name] = g
	return g
}

func (p *PrometheusMetrics) histogram(name string) prometheus.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return h
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: p.config.Namespace,
		Subsystem: p.config.Subsystem,
		Name:      sanitize(name),
		Help:      helpFor(name),
		Buckets:   p.config.Buckets,
	})
	if !p.register(name, h) {
		return nil
	}
	p.histograms[name] = h
	return h
}

// register must be called with mu held.
func (p *PrometheusMetrics) register(name string, c prometheus.Collector) bool {
	if err := p.registry.Register(c); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s: %v", ErrRegistrationFailed, name, err))
		return false
	}
	return true
}

// sanitize maps a name onto the Prometheus metric name alphabet.
func sanitize(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			sb.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func helpFor(name string) string {
	return strings.ReplaceAll(sanitize(name), "_", " ")
}
