package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type userResponse struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Name  string        `json:"name"`
	Role  shopauth.Role `json:"role,omitempty"`
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	token, err := shopauth.NewCSRFToken()
	if err != nil {
		h.internalError(r.Context(), w, "Failed to create CSRF token", err)
		return
	}
	middleware.SetCSRFCookie(w, h.engine.Cookies(), token)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	_, err := h.engine.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, shopauth.ErrValidation):
		writeError(w, http.StatusBadRequest, "All fields are required.")
	case errors.Is(err, shopauth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "Password too long.")
	case errors.Is(err, shopauth.ErrEmailInUse):
		writeError(w, http.StatusBadRequest, "Email already in use.")
	default:
		h.internalError(r.Context(), w, "Failed to create account.", err)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	identity, issued, err := h.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shopauth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.internalError(r.Context(), w, "Failed to sign in", err)
		return
	}

	cookies := h.engine.Cookies()
	middleware.SetSessionCookie(w, cookies, issued, time.Now())
	if req.CallbackURL != "" {
		middleware.SetCallbackCookie(w, cookies, req.CallbackURL)
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"user": userResponse{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
		Role:  identity.Role,
	}})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if view, ok := middleware.SessionFromContext(r.Context()); ok {
		h.engine.Logout(r.Context(), view.ID)
	}
	middleware.ClearSessionCookie(w, h.engine.Cookies())
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	view, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"user": view})
}
