package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// ClientIP returns the first X-Forwarded-For entry, or "unknown".
func ClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(xff, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	return first
}

// ClientContext stores the client IP, user agent and a request id in the
// request context for the engine's rate limits, fingerprints and audit.
func ClientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, rid)

		ctx := shopauth.WithClientIP(r.Context(), ClientIP(r))
		ctx = shopauth.WithUserAgent(ctx, r.UserAgent())
		ctx = shopauth.WithRequestID(ctx, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
