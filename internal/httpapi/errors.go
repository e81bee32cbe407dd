package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/middleware"
)

const codeEmailInUse = "EMAIL_IN_USE"

func writeError(w http.ResponseWriter, status int, msg string) {
	middleware.WriteError(w, status, msg)
}

func writeErrorCode(w http.ResponseWriter, status int, msg, code string) {
	middleware.WriteJSON(w, status, map[string]any{"error": msg, "status": status, "code": code})
}

// internalError logs err and answers 500 with msg. Driver details never
// reach the client.
func (h *Handler) internalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.log.Error(ctx, msg, "err", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// accountError answers 401 and clears the session cookie when the session
// user no longer exists. Anything else is an internal error.
func (h *Handler) accountError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, shopauth.ErrUserNotFound) {
		middleware.ClearSessionCookie(w, h.engine.Cookies())
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.internalError(r.Context(), w, msg, err)
}
