// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter functions live here for values that are set
// by middleware but consumed by services. Keeping this package free of
// net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	actor := requestcontext.SubjectID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, subjectID, role, status)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "medgate/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	subjectIDKey   struct{}
	roleKey        struct{}
	statusKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeySubjectID   = subjectIDKey{}
	ContextKeyRole        = roleKey{}
	ContextKeyStatus      = statusKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// SubjectID retrieves the verified acting subject from the context. Returns
// the zero value when the request is unauthenticated.
func SubjectID(ctx context.Context) id.SubjectID {
	if s, ok := ctx.Value(ContextKeySubjectID).(id.SubjectID); ok {
		return s
	}
	return ""
}

// Role retrieves the verified role of the acting subject.
func Role(ctx context.Context) id.Role {
	if r, ok := ctx.Value(ContextKeyRole).(id.Role); ok {
		return r
	}
	return ""
}

// Status retrieves the verified status of the acting subject.
func Status(ctx context.Context) id.SubjectStatus {
	if s, ok := ctx.Value(ContextKeyStatus).(id.SubjectStatus); ok {
		return s
	}
	return ""
}

// WithIdentity injects the verified (subject, role, status) tuple supplied by
// the external identity layer.
func WithIdentity(ctx context.Context, subject id.SubjectID, role id.Role, status id.SubjectStatus) context.Context {
	ctx = context.WithValue(ctx, ContextKeySubjectID, subject)
	ctx = context.WithValue(ctx, ContextKeyRole, role)
	return context.WithValue(ctx, ContextKeyStatus, status)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Every check inside one
// authorization decision evaluates against this single instant so the decision
// is reproducible for audit replay. Falls back to time.Now() for non-HTTP
// contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
