// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	require.True(t, NoOp())

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("count1").Add(1)
	CounterVec("countVec1", []string{"op"}).AddWithLabel(1, map[string]string{"nonsense": "ignored"})
	Gauge("gauge1").Set(3)
	GaugeVec("gaugeVec1", []string{"pool"}).SetWithLabel(1, nil)
	HistogramVec("hist1", []string{"op"}, BucketOps).ObserveWithLabels(5, nil)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newPrometheusMetrics(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	count := m.GetOrCreateCountMeter("ops_total")
	count.Add(2)
	m.GetOrCreateCountMeter("ops_total").Add(3)

	m.GetOrCreateCountVecMeter("reverts", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "policy"})
	m.GetOrCreateCountVecMeter("reverts", []string{"kind"}).AddWithLabel(4, map[string]string{"kind": "policy"})

	gauge := m.GetOrCreateGaugeMeter("accounts")
	gauge.Set(10)
	gauge.Add(-3)

	pools := m.GetOrCreateGaugeVecMeter("pool", []string{"name"})
	pools.SetWithLabel(100, map[string]string{"name": "fixed"})
	pools.AddWithLabel(5, map[string]string{"name": "fixed"})

	m.GetOrCreateHistogramVecMeter("op_duration", []string{"op"}, BucketOps).
		ObserveWithLabels(120, map[string]string{"op": "stake"})

	assert.Same(t, count, m.GetOrCreateCountMeter("ops_total"))

	server := httptest.NewServer(m.GetOrCreateHandler())
	t.Cleanup(server.Close)
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	for _, line := range []string{
		"stakerd_ops_total 5",
		`stakerd_reverts{kind="policy"} 5`,
		"stakerd_accounts 7",
		`stakerd_pool{name="fixed"} 105`,
		`stakerd_op_duration_count{op="stake"} 1`,
	} {
		assert.True(t, strings.Contains(out, line), "missing %q", line)
	}
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 1, get())
	assert.Equal(t, 1, get())
	assert.Equal(t, 1, calls)
}
