// Package orders persists placed orders. Checkout lives elsewhere; this
// package only removes a user's order history.
package orders

import (
	"context"
	"fmt"

	"github.com/naazbookdepot/shopauth/internal/dbx"
)

type Repository interface {
	// DeleteByUser removes the user's orders and their line items.
	DeleteByUser(ctx context.Context, userID string) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE user_id = $1)`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
