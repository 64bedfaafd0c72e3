// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/api/utils"
)

// handleGetHealth answers 503 when the accounting audit fails.
// The query parameter audit=true skips the cached result.
func (h *Health) handleGetHealth(w http.ResponseWriter, req *http.Request) error {
	force := false
	if v := req.URL.Query().Get("audit"); v != "" {
		var err error
		if force, err = strconv.ParseBool(v); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "audit"))
		}
	}

	status, err := h.Status(force)
	if err != nil {
		return err
	}
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

// Mount registers the health endpoint under pathPrefix.
func (h *Health) Mount(root *mux.Router, pathPrefix string) {
	root.PathPrefix(pathPrefix).Subrouter().
		Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
