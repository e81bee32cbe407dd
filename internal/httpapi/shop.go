package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/naazbookdepot/shopauth/internal/shop"
	"github.com/naazbookdepot/shopauth/middleware"
)

type cartRequest struct {
	Items *[]shop.CartLine `json:"items"`
}

func decodeCartLines(w http.ResponseWriter, r *http.Request) ([]shop.CartLine, bool) {
	var req cartRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Items == nil {
		writeError(w, http.StatusBadRequest, "Invalid items")
		return nil, false
	}
	return *req.Items, true
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.shop.GetCart(r.Context(), userID(r))
	if err != nil {
		h.internalError(r.Context(), w, "Failed to fetch cart", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) replaceCart(w http.ResponseWriter, r *http.Request) {
	lines, ok := decodeCartLines(w, r)
	if !ok {
		return
	}
	cart, err := h.shop.ReplaceCart(r.Context(), userID(r), lines)
	if err != nil {
		h.internalError(r.Context(), w, "Failed to save cart", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	lines, ok := decodeCartLines(w, r)
	if !ok {
		return
	}
	cart, err := h.shop.MergeCart(r.Context(), userID(r), lines)
	if err != nil {
		h.internalError(r.Context(), w, "Failed to save cart", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.ClearCart(r.Context(), userID(r)); err != nil {
		h.internalError(r.Context(), w, "Failed to clear cart", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.shop.ListReviews(r.Context(), mux.Vars(r)["slug"])
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, reviews)
	case errors.Is(err, shop.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	default:
		h.internalError(r.Context(), w, "Failed to fetch reviews", err)
	}
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var in shop.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rating")
		return
	}

	review, err := h.shop.CreateReview(r.Context(), userID(r), mux.Vars(r)["slug"], in)
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusCreated, review)
	case errors.Is(err, shop.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "Invalid rating")
	case errors.Is(err, shop.ErrInvalidTitle):
		writeError(w, http.StatusBadRequest, "Invalid title")
	case errors.Is(err, shop.ErrInvalidComment):
		writeError(w, http.StatusBadRequest, "Invalid comment")
	case errors.Is(err, shop.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, shop.ErrAlreadyReviewed):
		writeError(w, http.StatusBadRequest, "You have already reviewed this product")
	default:
		h.internalError(r.Context(), w, "Failed to create review", err)
	}
}
