package middleware

import (
	"net/http"
	"time"

	"github.com/naazbookdepot/shopauth"
)

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(w http.ResponseWriter, cfg shopauth.CookieConfig, s *shopauth.IssuedSession, now time.Time) {
	maxAge := int(s.ExpiresAt.Sub(now).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.SessionName,
		Value:    s.Token,
		Path:     cfg.Path,
		Expires:  s.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg shopauth.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.SessionName,
		Value:    "",
		Path:     cfg.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// SetCSRFCookie writes the CSRF cookie. The cookie is HttpOnly; clients get
// the token value from the response body.
func SetCSRFCookie(w http.ResponseWriter, cfg shopauth.CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CSRFName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// SetCallbackCookie records where to send the user after login.
func SetCallbackCookie(w http.ResponseWriter, cfg shopauth.CookieConfig, url string) {
	if cfg.CallbackName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CallbackName,
		Value:    url,
		Path:     cfg.Path,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
