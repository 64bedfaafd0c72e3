// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakerewards/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger {
	return m
}

func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (m *mockLogger) Handler() slog.Handler { return nil }

func (m *mockLogger) New(_ ...any) log.Logger { return m }

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Crit(_ string, _ ...any) {}

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) GetLoggedData() []any {
	return m.loggedData
}

func TestRequestLoggerHandler(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		delay     time.Duration
		enabled   bool
		slow      time.Duration
		log5xx    bool
		shouldLog bool
	}{
		{name: "enabled", status: http.StatusOK, enabled: true, shouldLog: true},
		{name: "disabled", status: http.StatusOK},
		{name: "slow request", status: http.StatusOK, delay: 15 * time.Millisecond, slow: 10 * time.Millisecond, shouldLog: true},
		{name: "fast request", status: http.StatusOK, delay: 5 * time.Millisecond, slow: 20 * time.Millisecond},
		{name: "500 logged", status: http.StatusInternalServerError, log5xx: true, shouldLog: true},
		{name: "503 logged", status: http.StatusServiceUnavailable, log5xx: true, shouldLog: true},
		{name: "500 not logged", status: http.StatusInternalServerError},
		{name: "revert is a 4xx", status: http.StatusBadRequest, log5xx: true},
		{name: "slow 500", status: http.StatusInternalServerError, delay: 15 * time.Millisecond, slow: 10 * time.Millisecond, log5xx: true, shouldLog: true},
		{name: "implicit 200", log5xx: true},
	}

	const body = `{"caller":"0x0000000000000000000000000000000000a11ce0","amount":"1000"}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.slow, tt.log5xx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// the body is still readable downstream
				b, _ := io.ReadAll(r.Body)
				assert.Equal(t, body, string(b))
				time.Sleep(tt.delay)
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte("{}"))
			}))

			req := httptest.NewRequest(http.MethodPost, "http://example.com/staking/stake", strings.NewReader(body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			assert.Equal(t, want, rr.Code)

			logged := mockLog.GetLoggedData()
			if !tt.shouldLog {
				assert.Empty(t, logged)
				return
			}
			assert.Contains(t, logged, "http://example.com/staking/stake")
			assert.Contains(t, logged, http.MethodPost)
			assert.Contains(t, logged, body)
			assert.Contains(t, logged, want)

			for i := 0; i+1 < len(logged); i += 2 {
				if logged[i] == "Timestamp" {
					assert.IsType(t, int64(0), logged[i+1])
					return
				}
			}
			t.Error("timestamp not logged")
		})
	}
}

func TestRequestID(t *testing.T) {
	enabled := atomic.Bool{}
	enabled.Store(true)
	mockLog := &mockLogger{}
	handler := RequestLoggerMiddleware(mockLog, &enabled, 0, false)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}))

	// a caller supplied id is kept
	req := httptest.NewRequest("GET", "http://example.com/staking/totals", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
	assert.Contains(t, mockLog.GetLoggedData(), "abc")

	// otherwise one is generated, even when nothing is logged
	enabled.Store(false)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "http://example.com/staking/totals", nil))
	assert.Len(t, rr.Header().Get(RequestIDHeader), 36)
}
