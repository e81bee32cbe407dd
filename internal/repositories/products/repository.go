package products

import (
	"context"

	"github.com/naazbookdepot/shopauth/internal/models"
)

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	// UpsertCategory inserts c unless its slug exists and returns the
	// stored row either way.
	UpsertCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	UpsertProduct(ctx context.Context, p *models.Product) (*models.Product, error)
}
