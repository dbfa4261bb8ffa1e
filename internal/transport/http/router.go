// Package httptransport assembles the HTTP surface: module routes, the
// identity middleware chain, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "medgate/internal/audit/handler"
	consenthandler "medgate/internal/consent/handler"
	gatehandler "medgate/internal/gate/handler"
	identityhandler "medgate/internal/identity/handler"
	recordhandler "medgate/internal/record/handler"
	identitymw "medgate/pkg/platform/middleware/identity"
	"medgate/pkg/platform/middleware/recovery"
	"medgate/pkg/platform/middleware/reqlog"
	"medgate/pkg/platform/middleware/requestid"
	"medgate/pkg/platform/middleware/requesttime"
)

// Handlers carries the per-module HTTP handlers the router mounts.
type Handlers struct {
	Identity *identityhandler.Handler
	Consent  *consenthandler.Handler
	Record   *recordhandler.Handler
	Gate     *gatehandler.Handler
	Audit    *audithandler.Handler
}

// NewRouter wires all endpoints. Subject registration and status changes,
// record indexing, and audit queries are administrative surfaces; consent
// and authorization take any authenticated subject.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(recovery.Middleware(logger))
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(reqlog.Middleware(logger))
	r.Use(identitymw.Middleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(identitymw.Require)
		h.Consent.Register(r)
		h.Gate.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(identitymw.RequireAdmin)
		h.Identity.Register(r)
		h.Record.Register(r)
		h.Audit.Register(r)
	})

	return r
}
