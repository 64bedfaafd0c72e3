// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		start  bool
		status int
		want   bool
	}{
		{"get current", http.MethodGet, "", true, http.StatusOK, true},
		{"enable", http.MethodPost, `{"enabled":true}`, false, http.StatusOK, true},
		{"disable", http.MethodPost, `{"enabled":false}`, true, http.StatusOK, false},
		{"already enabled", http.MethodPost, `{"enabled":true}`, true, http.StatusOK, true},
		{"bad value keeps current", http.MethodPost, `{"enabled":"yes"}`, true, http.StatusBadRequest, true},
		{"empty body keeps current", http.MethodPost, "", false, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/apilogs", strings.NewReader(tt.body)))
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.want, enabled.Load())

			if tt.status == http.StatusOK {
				var res LogStatus
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
				assert.Equal(t, tt.want, res.Enabled)
			}
		})
	}
}
