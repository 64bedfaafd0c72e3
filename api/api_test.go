// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/api/middleware"
	"github.com/vechain/stakerewards/metrics"
	"github.com/vechain/stakerewards/test/testnode"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func httpDo(t *testing.T, method, url, body string, header map[string]string) ([]byte, *http.Response) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res
}

func TestRoutes(t *testing.T) {
	node := testnode.New(t)
	ts := httptest.NewServer(New(node.Runtime, Options{
		AllowedOrigins: "https://Example.org ",
		LogsLimit:      100,
	}))
	defer ts.Close()

	for _, tt := range []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/staking/params", "", http.StatusOK},
		{http.MethodGet, "/staking/totals", "", http.StatusOK},
		{http.MethodGet, "/token", "", http.StatusOK},
		{http.MethodPost, "/logs/event", "{}", http.StatusOK},
		{http.MethodPost, "/logs/transfer", "{}", http.StatusOK},
		{http.MethodGet, "/debug/pprof/", "", http.StatusNotFound},
	} {
		_, res := httpDo(t, tt.method, ts.URL+tt.path, tt.body, nil)
		assert.Equal(t, tt.status, res.StatusCode, tt.method+" "+tt.path)
		assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))
	}

	// cors
	_, res := httpDo(t, http.MethodGet, ts.URL+"/token", "", map[string]string{"Origin": "https://example.org"})
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))
	_, res = httpDo(t, http.MethodGet, ts.URL+"/token", "", map[string]string{"Origin": "https://other.org"})
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestSkipLogs(t *testing.T) {
	node := testnode.New(t)
	ts := httptest.NewServer(New(node.Runtime, Options{SkipLogs: true, PprofOn: true}))
	defer ts.Close()

	_, res := httpDo(t, http.MethodPost, ts.URL+"/logs/event", "{}", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_, res = httpDo(t, http.MethodGet, ts.URL+"/debug/pprof/cmdline", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	node := testnode.New(t)

	ts := httptest.NewServer(New(node.Runtime, Options{EnableMetrics: true, LogsLimit: 10}))
	defer ts.Close()
	metricsTS := httptest.NewServer(metrics.HTTPHandler())
	defer metricsTS.Close()

	httpDo(t, http.MethodGet, ts.URL+"/staking/accounts/0x", "", nil)
	httpDo(t, http.MethodGet, ts.URL+"/staking/accounts/"+testnode.Alice.String(), "", nil)
	httpDo(t, http.MethodPost, ts.URL+"/staking/stake", `{"caller":"`+testnode.Bob.String()+`","amount":"5"}`, nil)
	// unrouted requests are not recorded
	httpDo(t, http.MethodGet, ts.URL+"/nowhere", "", nil)

	body, _ := httpDo(t, http.MethodGet, metricsTS.URL, "", nil)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["stakerd_api_request_count"].GetMetric()
	require.Len(t, m, 3, "should be 3 metric entries")

	var seen []string
	for _, metric := range m {
		assert.Equal(t, float64(1), metric.GetCounter().GetValue())
		labels := map[string]string{}
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		seen = append(seen, labels["method"]+" "+labels["name"]+" "+labels["code"])
	}
	assert.ElementsMatch(t, []string{
		"GET staking_accounts_address 400",
		"GET staking_accounts_address 200",
		"POST staking_stake 200",
	}, seen)
}
