package reviews

import (
	"context"

	"github.com/naazbookdepot/shopauth/internal/models"
)

type Repository interface {
	// ListByProduct returns the product's reviews, newest first, with the
	// reviewer name filled in.
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
	// Create returns models.ErrConflict when the user already reviewed the
	// product.
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	DeleteByUser(ctx context.Context, userID string) error
}
