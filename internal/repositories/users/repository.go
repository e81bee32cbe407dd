package users

import (
	"context"

	"github.com/naazbookdepot/shopauth/internal/models"
)

// Changes lists the columns Update writes; nil fields keep their value.
type Changes struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, changes Changes) (*models.User, error)
	SetMFA(ctx context.Context, id string, secret string, enabled bool) error
	Delete(ctx context.Context, id string) error
}
