package addresses

import (
	"context"

	"github.com/naazbookdepot/shopauth/internal/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	Create(ctx context.Context, a *models.Address) (*models.Address, error)
	// Update writes a only when it belongs to a.UserID.
	Update(ctx context.Context, a *models.Address) (*models.Address, error)
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
