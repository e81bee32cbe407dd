package middleware

import (
	"net/http"

	"github.com/naazbookdepot/shopauth"
)

// CSRF rejects POST, PUT, PATCH and DELETE requests whose CSRF header and
// cookie are missing or differ. Safe methods pass untouched.
func CSRF(engine *shopauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			cookies := engine.Cookies()
			header := r.Header.Get(cookies.CSRFHeader)
			cookie := cookieValue(r, cookies.CSRFName)
			if !engine.CheckCSRF(r.Context(), header, cookie) {
				WriteError(w, http.StatusForbidden, "Invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
