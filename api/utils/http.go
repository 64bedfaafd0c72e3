// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSONContentType is the content type of every API response body.
const JSONContentType = "application/json; charset=utf-8"

// statusError attaches a response status to a handler error.
type statusError struct {
	cause  error
	status int
}

func (e *statusError) Error() string { return e.cause.Error() }
func (e *statusError) Unwrap() error { return e.cause }

// HTTPError makes the handler respond with status and the message of cause.
func HTTPError(cause error, status int) error {
	return &statusError{cause: cause, status: status}
}

// BadRequest marks a malformed request or a rejected operation.
func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }

// Forbidden marks an unauthorized caller or a query over the configured limits.
func Forbidden(cause error) error { return HTTPError(cause, http.StatusForbidden) }

// HandlerFunc is an http.HandlerFunc that may fail. Errors made by HTTPError
// carry their status, any other error is answered with 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts f into an http.HandlerFunc writing its error as plain text.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := f(w, req)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
			if se.cause == nil {
				w.WriteHeader(status)
				return
			}
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes a request body, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON writes obj as the JSON response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
