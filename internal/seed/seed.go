// Package seed loads demo users and the starter catalog. Running it again
// leaves existing rows untouched.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
	"github.com/naazbookdepot/shopauth/password"
)

// Hasher produces the stored password hash for seed users.
type Hasher interface {
	Hash(password string) (string, error)
}

type Result struct {
	UsersCreated int
	Categories   int
	Products     int
}

type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      Hasher
	log         logging.Logger
}

// NewSeeder hashes seed passwords with bcrypt when hasher is nil.
func NewSeeder(db *sql.DB, m repomanager.RepositoryManager, hasher Hasher, log logging.Logger) (*Seeder, error) {
	if hasher == nil {
		b, err := password.NewBcrypt(password.DefaultBcryptCost)
		if err != nil {
			return nil, err
		}
		hasher = b
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Seeder{db: db, repomanager: m, hasher: hasher, log: log.With("module", "seed")}, nil
}

// Run seeds users one statement at a time, since a duplicate insert would
// abort an enclosing transaction, then upserts the catalog in one
// transaction.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	n, err := s.seedUsers(ctx)
	if err != nil {
		return res, err
	}
	res.UsersCreated = n

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		products := s.repomanager.Products(tx)
		for _, c := range catalog {
			cat, err := products.UpsertCategory(ctx, &models.Category{
				Slug:        c.Slug,
				Name:        c.Name,
				Description: c.Description,
			})
			if err != nil {
				return fmt.Errorf("category %s: %w", c.Slug, err)
			}
			res.Categories++

			for _, p := range c.Products {
				_, err := products.UpsertProduct(ctx, &models.Product{
					Slug:        p.Slug,
					Name:        p.Name,
					Description: p.Description,
					Price:       p.Price,
					Stock:       p.Stock,
					CategoryID:  cat.ID,
					Image:       p.Image,
					IsActive:    true,
				})
				if err != nil {
					return fmt.Errorf("product %s: %w", p.Slug, err)
				}
				res.Products++
			}
		}
		return nil
	})
	if err != nil {
		return Result{UsersCreated: res.UsersCreated}, err
	}

	s.log.Info(ctx, "seed complete",
		"users_created", res.UsersCreated,
		"categories", res.Categories,
		"products", res.Products)
	return res, nil
}

func (s *Seeder) seedUsers(ctx context.Context) (int, error) {
	repo := s.repomanager.Users(s.db)
	created := 0

	for _, u := range users {
		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return created, fmt.Errorf("hash %s: %w", u.Email, err)
		}

		_, err = repo.Create(ctx, &models.User{
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: hash,
			Role:         string(u.Role),
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, models.ErrConflict):
			s.log.Debug(ctx, "user exists", "email", u.Email)
		default:
			return created, fmt.Errorf("user %s: %w", u.Email, err)
		}
	}
	return created, nil
}
