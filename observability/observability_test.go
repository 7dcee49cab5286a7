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
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks.
var (
	_ Logger           = (*NoOpLogger)(nil)
	_ Logger           = (*SlogLogger)(nil)
	_ MetricsCollector = (*NoOpMetrics)(nil)
	_ MetricsCollector = (*PrometheusMetrics)(nil)
)

func TestNoOp(t *testing.T) {
	l := &NoOpLogger{}
	m := &NoOpMetrics{}
	assert.NotPanics(t, func() {
		l.Debug("x", nil)
		l.Info("x", map[string]interface{}{"k": 1})
		l.Warn("x", nil)
		l.Error("x", nil)
		m.Inc("a")
		m.Add("a", 1)
		m.Observe("a", 1)
		m.Set("a", 1)
	})
}

func TestSlogLogger_FieldsInKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	l := NewSlogLogger(slog.New(h))

	l.Debug("hidden", nil)
	l.Info("stored", map[string]interface{}{"nodes": 3, "edges": 5})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=stored")
	assert.Less(t, strings.Index(out, "edges=5"), strings.Index(out, "nodes=3"))
}

func TestPrometheusMetrics(t *testing.T) {
	p, err := NewPrometheusMetrics(nil)
	require.NoError(t, err)

	p.Inc("knowledges_stored_total")
	p.Inc("knowledges_stored_total")
	p.Add("knowledges_stored_total", 3)
	p.Add("knowledges_stored_total", -1)
	p.Set("knowledges_sane", 7)
	p.Observe("scc_size", 4)

	assert.Equal(t, 5.0, testutil.ToFloat64(p.counters["knowledges_stored_total"]))
	assert.Equal(t, 7.0, testutil.ToFloat64(p.gauges["knowledges_sane"]))

	n, err := testutil.GatherAndCount(p.Registry())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Same name as a different metric type cannot be registered.
	p.Set("knowledges_stored_total", 1)
	errs := p.Errors()
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrRegistrationFailed))
}

func TestPrometheusMetrics_WriteTextfile(t *testing.T) {
	p, err := NewPrometheusMetrics(nil)
	require.NoError(t, err)
	p.Inc("hash_collisions_total")

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "partner_space_hash_collisions_total 1")
}

func TestPrometheusConfig_Validate(t *testing.T) {
	_, err := NewPrometheusMetrics(&PrometheusConfig{Subsystem: "x"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewPrometheusMetrics(&PrometheusConfig{Namespace: "x"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scc_size", sanitize("scc_size"))
	assert.Equal(t, "a_b_c", sanitize("a-b.c"))
	assert.Equal(t, "_9lives", sanitize("9lives"))
}
