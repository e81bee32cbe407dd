// Package wishlists persists saved products. Only account deletion touches
// it for now.
package wishlists

import (
	"context"
	"fmt"

	"github.com/naazbookdepot/shopauth/internal/dbx"
)

type Repository interface {
	DeleteByUser(ctx context.Context, userID string) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wishlists WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
