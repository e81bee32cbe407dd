package httpapi

import (
	"errors"
	"net/http"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/shop"
	"github.com/naazbookdepot/shopauth/middleware"
)

type profileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type mfaVerifyRequest struct {
	Code string `json:"code"`
}

type idRequest struct {
	ID string `json:"id"`
}

func userID(r *http.Request) string {
	view, _ := middleware.SessionFromContext(r.Context())
	return view.ID
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	view, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteJSON(w, http.StatusOK, []models.Address{})
		return
	}
	list, err := h.shop.ListAddresses(r.Context(), view.ID)
	if err != nil {
		h.internalError(r.Context(), w, "Failed to fetch addresses", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var a models.Address
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address")
		return
	}
	out, err := h.shop.CreateAddress(r.Context(), userID(r), a)
	if err != nil {
		h.internalError(r.Context(), w, "Failed to create address", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var a models.Address
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "Address ID required")
		return
	}
	out, err := h.shop.UpdateAddress(r.Context(), userID(r), a)
	if err != nil {
		h.addressError(w, r, "Failed to update address", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Address ID required")
		return
	}
	if err := h.shop.DeleteAddress(r.Context(), userID(r), req.ID); err != nil {
		h.addressError(w, r, "Failed to delete address", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) addressError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, shop.ErrAddressIDRequired):
		writeError(w, http.StatusBadRequest, "Address ID required")
	case errors.Is(err, shop.ErrAddressNotFound):
		writeError(w, http.StatusNotFound, "Address not found or not yours")
	default:
		h.internalError(r.Context(), w, msg, err)
	}
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "No updates provided")
		return
	}

	user, err := h.engine.UpdateProfile(r.Context(), userID(r), shopauth.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.Password,
		NewPassword:     req.NewPassword,
	})
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
		})
	case errors.Is(err, shopauth.ErrNoPasswordSet):
		writeError(w, http.StatusBadRequest, "No password set")
	case errors.Is(err, shopauth.ErrCurrentPasswordIncorrect):
		writeError(w, http.StatusBadRequest, "Current password incorrect")
	case errors.Is(err, shopauth.ErrNoUpdates):
		writeError(w, http.StatusBadRequest, "No updates provided")
	case errors.Is(err, shopauth.ErrEmailInUse):
		writeErrorCode(w, http.StatusBadRequest, "Email already in use", codeEmailInUse)
	case errors.Is(err, shopauth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "Password too long")
	case errors.Is(err, shopauth.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid password")
	default:
		h.accountError(w, r, "Failed to update profile", err)
	}
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteAccount(r.Context(), userID(r)); err != nil {
		h.accountError(w, r, "Failed to delete account", err)
		return
	}
	middleware.ClearSessionCookie(w, h.engine.Cookies())
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) beginMFA(w http.ResponseWriter, r *http.Request) {
	setup, err := h.engine.BeginMFAEnrollment(r.Context(), userID(r))
	if err != nil {
		h.accountError(w, r, "Failed to start MFA enrollment", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"qr": setup.QR, "secret": setup.Secret})
}

func (h *Handler) verifyMFA(w http.ResponseWriter, r *http.Request) {
	var req mfaVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid code")
		return
	}
	err := h.engine.VerifyAndEnableMFA(r.Context(), userID(r), req.Code)
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, shopauth.ErrMFANoSecret):
		writeError(w, http.StatusBadRequest, "No MFA secret found")
	case errors.Is(err, shopauth.ErrMFAInvalidCode):
		writeError(w, http.StatusBadRequest, "Invalid code")
	default:
		h.accountError(w, r, "Failed to verify MFA code", err)
	}
}

func (h *Handler) disableMFA(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DisableMFA(r.Context(), userID(r)); err != nil {
		h.accountError(w, r, "Failed to disable MFA", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
