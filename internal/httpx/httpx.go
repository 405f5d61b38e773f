// Package httpx holds the JSON plumbing shared by every handler.
package httpx

import (
	"encoding/json"
	"net/http"

	"skillquest-server/internal/apperrors"
)

// ErrorBody is the error envelope returned by every endpoint.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error translates an application error into the wire envelope. Internal
// errors are reported generically; the cause stays in the logs.
func Error(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	JSON(w, apperrors.HTTPStatus(appErr.Code), ErrorBody{
		Message: appErr.Message,
		Code:    string(appErr.Code),
	})
}

// Decode parses the request body into v, reporting any failure as a
// malformed-request error.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.MalformedRequest()
	}
	return nil
}
