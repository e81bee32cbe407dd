package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/naazbookdepot/shopauth"
)

type sessionContextKey struct{}

// SessionFromContext returns the session loaded by Guard.
func SessionFromContext(ctx context.Context) (shopauth.SessionView, bool) {
	view, ok := ctx.Value(sessionContextKey{}).(shopauth.SessionView)
	return view, ok && view.ID != ""
}

// WithSession stores view as the request session. Handlers under test use
// it to skip cookie handling.
func WithSession(ctx context.Context, view shopauth.SessionView) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, view)
}

// Guard loads the session cookie. Requests without a usable session pass
// through without one. A cookie that is expired, invalid or names a deleted
// user is cleared. When the
// engine re-signs the token the new cookie is written before next runs.
func Guard(engine *shopauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}
			cookies := engine.Cookies()
			token := cookieValue(r, cookies.SessionName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, shopauth.ErrSessionExpired) || errors.Is(err, shopauth.ErrTokenInvalid) ||
					errors.Is(err, shopauth.ErrUserNotFound) {
					ClearSessionCookie(w, cookies)
				}
				next.ServeHTTP(w, r)
				return
			}
			if res.Reissued != nil {
				SetSessionCookie(w, cookies, res.Reissued, time.Now())
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), res.View)))
		})
	}
}

// RequireSession answers 401 {"error": "Unauthorized"} when Guard found no
// session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 401 without a session and 403 {"error": "Forbidden"}
// when the session's role is neither role nor ADMIN. The role comes from
// the user row Authenticate reloaded, so a demotion applies on the next
// request.
func RequireRole(role shopauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view, _ := SessionFromContext(r.Context())
			if view.Role != role && view.Role != shopauth.RoleAdmin {
				WriteError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
