// Package httpapi exposes the storefront auth and account endpoints over a
// gorilla/mux router.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/shop"
)

const maxBodyBytes = 1 << 20

// Shop is the part of shop.Service the handlers call.
type Shop interface {
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	CreateAddress(ctx context.Context, userID string, a models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID string, a models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error

	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	ReplaceCart(ctx context.Context, userID string, lines []shop.CartLine) (*models.Cart, error)
	MergeCart(ctx context.Context, userID string, lines []shop.CartLine) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string) error

	ListReviews(ctx context.Context, slug string) ([]models.Review, error)
	CreateReview(ctx context.Context, userID, slug string, in shop.ReviewInput) (*models.Review, error)
}

var _ Shop = (*shop.Service)(nil)

// Handler holds the dependencies of every endpoint.
type Handler struct {
	engine  *shopauth.Engine
	shop    Shop
	log     logging.Logger
	metrics http.Handler
}

// NewHandler wires the endpoints. metrics may be nil, in which case
// /metrics is not routed.
func NewHandler(engine *shopauth.Engine, s Shop, log logging.Logger, metrics http.Handler) *Handler {
	if log == nil {
		log = logging.Nop{}
	}
	return &Handler{
		engine:  engine,
		shop:    s,
		log:     log.With("module", "httpapi"),
		metrics: metrics,
	}
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}
