// Package httputil centralizes JSON encoding and error mapping for handlers.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "medgate/pkg/domain-errors"
)

// statusByCode maps domain error codes to HTTP status codes. Unknown codes
// fall through to 500.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeBadRequest:      http.StatusBadRequest,
	dErrors.CodeInvalidInput:    http.StatusBadRequest,
	dErrors.CodeUnauthenticated: http.StatusUnauthorized,
	dErrors.CodeUnauthorized:    http.StatusForbidden,
	dErrors.CodeNotFound:        http.StatusNotFound,
	dErrors.CodeTimeout:         http.StatusGatewayTimeout,
	dErrors.CodeInternal:        http.StatusInternalServerError,

	dErrors.CodeDuplicateSubject: http.StatusConflict,
	dErrors.CodeUnknownSubject:   http.StatusNotFound,
	dErrors.CodeInvalidScope:     http.StatusBadRequest,
	dErrors.CodeDuplicateGrant:   http.StatusConflict,
	dErrors.CodeNoActiveGrant:    http.StatusNotFound,
	dErrors.CodeDuplicateRecord:  http.StatusConflict,
	dErrors.CodeUnknownRecord:    http.StatusNotFound,

	dErrors.CodeRequesterUnknown:  http.StatusForbidden,
	dErrors.CodeRequesterInactive: http.StatusForbidden,
	dErrors.CodeRoleNotPermitted:  http.StatusForbidden,
	dErrors.CodeConsentMissing:    http.StatusForbidden,
	dErrors.CodeAuditWriteFailed:  http.StatusInternalServerError,
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a coded error onto an HTTP response. Internal errors omit
// the description so infrastructure details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	body := map[string]string{"error": string(code)}
	if status < http.StatusInternalServerError {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, status, body)
}

// DecodeAndPrepare decodes the request body into T and writes a bad_request
// response on failure. Returns ok=false when the handler should stop.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request body decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		var zero T
		return zero, false
	}
	return req, true
}
