package shop

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
)

// CartLine is one requested cart entry.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// valid reports whether l names a product by UUID with a positive quantity.
func (l CartLine) valid() bool {
	if l.Quantity <= 0 {
		return false
	}
	_, err := uuid.Parse(l.ProductID)
	return err == nil
}

// EmptyCart is returned for users without a cart row.
func EmptyCart(userID string) *models.Cart {
	epoch := time.Unix(0, 0).UTC()
	return &models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repomanager.Carts(s.db).GetByUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return EmptyCart(userID), nil
	}
	return cart, err
}

// ReplaceCart drops every item and stores the valid lines.
func (s *Service) ReplaceCart(ctx context.Context, userID string, lines []CartLine) (*models.Cart, error) {
	return s.writeCart(ctx, userID, lines, true)
}

// MergeCart upserts the valid lines, overwriting quantities of products
// already in the cart.
func (s *Service) MergeCart(ctx context.Context, userID string, lines []CartLine) (*models.Cart, error) {
	return s.writeCart(ctx, userID, lines, false)
}

func (s *Service) writeCart(ctx context.Context, userID string, lines []CartLine, replace bool) (*models.Cart, error) {
	var out *models.Cart
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Carts(tx)

		cart, err := repo.Ensure(ctx, userID)
		if err != nil {
			return err
		}
		if replace {
			if err := repo.ClearItems(ctx, cart.ID); err != nil {
				return err
			}
		}
		for _, l := range lines {
			if !l.valid() {
				continue
			}
			if err := repo.UpsertItem(ctx, cart.ID, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		out, err = repo.GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCart removes every item. The cart row itself is kept.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	repo := s.repomanager.Carts(s.db)
	cart, err := repo.GetByUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return repo.ClearItems(ctx, cart.ID)
}
