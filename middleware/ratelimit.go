package middleware

import (
	"net/http"

	"github.com/naazbookdepot/shopauth"
)

// KeyFunc picks the rate-limit key for a request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the client IP stored by ClientContext.
func ByClientIP(r *http.Request) string {
	return shopauth.ClientIPFromContext(r.Context())
}

// BySessionUser keys on the session user id. Place it after Guard.
func BySessionUser(r *http.Request) string {
	view, _ := SessionFromContext(r.Context())
	return view.ID
}

// RateLimit answers 429 {"error": "Too many requests"} when the engine
// reports key over budget for scope. Only mutating methods are counted.
func RateLimit(engine *shopauth.Engine, scope shopauth.RateLimitScope, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isMutating(r.Method) && engine.CheckRateLimit(r.Context(), scope, key(r)) {
				WriteError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
