package carts

import (
	"context"

	"github.com/naazbookdepot/shopauth/internal/models"
)

type Repository interface {
	// GetByUser returns the user's cart with its items, or models.ErrNotFound.
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	// Ensure returns the user's cart, creating it when missing.
	Ensure(ctx context.Context, userID string) (*models.Cart, error)
	ClearItems(ctx context.Context, cartID string) error
	// UpsertItem inserts the item or overwrites the quantity of the
	// existing row for the same product.
	UpsertItem(ctx context.Context, cartID, productID string, quantity int) error
	DeleteByUser(ctx context.Context, userID string) error
}
