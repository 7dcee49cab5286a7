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

// Package observability provides the logging and metrics hooks used by the
// checker.
//
// Both hooks are small interfaces so that callers can plug in whatever
// backend they run with. The package ships three kinds of implementation:
//
//   - NoOpLogger and NoOpMetrics, the defaults when nothing is configured
//   - SlogLogger, which forwards to a log/slog logger
//   - PrometheusMetrics, which records into a Prometheus registry
package observability

// MetricsCollector records exploration metrics.
//
// The MetricsCollector provides methods for common metric types:
//   - Counters: monotonically increasing values (e.g., knowledges stored)
//   - Histograms: distributions of values (e.g., component sizes)
//   - Gauges: values that can go up and down (e.g., sane nodes)
//
// Use NoOpMetrics when metrics are disabled.
type MetricsCollector interface {
	// Inc increments a counter metric by 1.
	//
	// Example:
	//   metrics.Inc("knowledges_stored_total")
	Inc(name string)

	// Add adds a value to a counter metric.
	Add(name string, value float64)

	// Observe records a value in a histogram metric.
	//
	// Example:
	//   metrics.Observe("scc_size", 12)
	Observe(name string, value float64)

	// Set sets a gauge metric to a specific value.
	Set(name string, value float64)
}

// Logger handles structured logging with contextual fields.
//
// Use NoOpLogger when logging is disabled.
type Logger interface {
	// Debug logs a debug-level message with optional fields.
	//
	// Example:
	//   logger.Debug("evaluated component", map[string]interface{}{
	//       "size": 4,
	//       "sane": true,
	//   })
	Debug(msg string, fields map[string]interface{})

	// Info logs an info-level message with optional fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning-level message with optional fields.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error-level message with optional fields.
	Error(msg string, fields map[string]interface{})
}
