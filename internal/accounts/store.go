// Package accounts adapts the PostgreSQL repositories to shopauth.UserStore.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
	"github.com/naazbookdepot/shopauth/internal/repositories/users"
)

// Store implements shopauth.UserStore.
type Store struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

var _ shopauth.UserStore = (*Store)(nil)

func NewStore(db *sql.DB, m repomanager.RepositoryManager) *Store {
	return &Store{db: db, repomanager: m}
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (shopauth.UserRecord, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return shopauth.UserRecord{}, mapError(err)
	}
	return toRecord(u), nil
}

// GetUserByID reports ErrUserNotFound for ids that are not UUIDs instead of
// letting Postgres reject them.
func (s *Store) GetUserByID(ctx context.Context, userID string) (shopauth.UserRecord, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return shopauth.UserRecord{}, shopauth.ErrUserNotFound
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return shopauth.UserRecord{}, mapError(err)
	}
	return toRecord(u), nil
}

func (s *Store) CreateUser(ctx context.Context, in shopauth.CreateUserInput) (shopauth.UserRecord, error) {
	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         string(in.Role),
	})
	if err != nil {
		return shopauth.UserRecord{}, mapError(err)
	}
	return toRecord(u), nil
}

func (s *Store) UpdateUser(ctx context.Context, userID string, c shopauth.UserChanges) (shopauth.UserRecord, error) {
	u, err := s.repomanager.Users(s.db).Update(ctx, userID, users.Changes{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
	})
	if err != nil {
		return shopauth.UserRecord{}, mapError(err)
	}
	return toRecord(u), nil
}

func (s *Store) SetMFA(ctx context.Context, userID string, secret string, enabled bool) error {
	return mapError(s.repomanager.Users(s.db).SetMFA(ctx, userID, secret, enabled))
}

// DeleteUser removes the user's cart, addresses, wishlist, reviews and
// orders, then the user, in one transaction.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		steps := []struct {
			name string
			run  func(context.Context, string) error
		}{
			{"cart", s.repomanager.Carts(tx).DeleteByUser},
			{"addresses", s.repomanager.Addresses(tx).DeleteByUser},
			{"wishlist", s.repomanager.Wishlists(tx).DeleteByUser},
			{"reviews", s.repomanager.Reviews(tx).DeleteByUser},
			{"orders", s.repomanager.Orders(tx).DeleteByUser},
		}
		for _, step := range steps {
			if err := step.run(ctx, userID); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	return mapError(err)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return shopauth.ErrUserNotFound
	case errors.Is(err, models.ErrConflict):
		return shopauth.ErrEmailInUse
	default:
		return err
	}
}

func toRecord(u *models.User) shopauth.UserRecord {
	return shopauth.UserRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         shopauth.Role(u.Role),
		MFASecret:    u.MFASecret,
		MFAEnabled:   u.MFAEnabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
