package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	query :=
		`SELECT r.id, r.user_id, r.product_id, r.rating, r.title, r.comment, r.created_at, u.name
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Comment, &rv.CreatedAt, &rv.User.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`, userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}

	query :=
		`WITH inserted AS (
		     INSERT INTO reviews (id, user_id, product_id, rating, title, comment)
		     VALUES ($1, $2, $3, $4, $5, $6)
		     RETURNING user_id, created_at
		 )
		 SELECT i.created_at, u.name FROM inserted i JOIN users u ON u.id = i.user_id
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.ID, review.UserID, review.ProductID, review.Rating, review.Title, review.Comment,
	).Scan(&review.CreatedAt, &review.User.Name)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return review, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
