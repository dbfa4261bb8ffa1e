// Package requestid assigns a request ID to every inbound request so log
// lines and audit entries produced by one request can be correlated.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"medgate/pkg/requestcontext"
)

// Header carries the request ID on requests and responses. An upstream proxy
// may supply its own; otherwise one is minted here.
const Header = "X-Request-Id"

// Middleware ensures a request ID is present in context and echoed on the
// response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		w.Header().Set(Header, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
