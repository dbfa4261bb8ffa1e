// Package identity extracts the verified subject tuple from trusted headers.
//
// Authentication happens upstream: the session layer validates the bearer
// credential and forwards (subject id, role, status) on internal headers. The
// core never sees or parses the credential itself; this middleware only lifts
// the already-verified tuple into the request context.
package identity

import (
	"log/slog"
	"net/http"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Headers populated by the upstream session layer.
const (
	HeaderSubjectID = "X-Subject-Id"
	HeaderRole      = "X-Subject-Role"
	HeaderStatus    = "X-Subject-Status"
)

// Middleware parses the identity headers into the request context. Requests
// without the headers pass through unauthenticated; guards below enforce
// presence per route group.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderSubjectID)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			subject, err := id.ParseSubjectID(raw)
			if err == nil {
				var role id.Role
				var status id.SubjectStatus
				role, err = id.ParseRole(r.Header.Get(HeaderRole))
				if err == nil {
					status, err = id.ParseSubjectStatus(r.Header.Get(HeaderStatus))
				}
				if err == nil {
					ctx := requestcontext.WithIdentity(r.Context(), subject, role, status)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			logger.WarnContext(r.Context(), "malformed identity headers",
				"request_id", requestcontext.RequestID(r.Context()),
				"error", err,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "malformed identity headers"))
		})
	}
}

// Require rejects requests that carry no verified subject.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestcontext.SubjectID(r.Context()).IsNil() {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose verified subject is not an active
// administrator. Used for the compliance and registry-administration surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if requestcontext.SubjectID(ctx).IsNil() {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required"))
			return
		}
		if requestcontext.Role(ctx) != id.RoleAdministrator || requestcontext.Status(ctx) != id.SubjectStatusActive {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "administrator role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
