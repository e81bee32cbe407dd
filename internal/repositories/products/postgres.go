package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
)

const productColumns = `id, slug, name, description, price, stock, category_id, image, is_active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p := &models.Product{}
	err := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.Image, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) UpsertCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query :=
		`INSERT INTO categories (id, slug, name, description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		 RETURNING id, slug, name, description
		 `

	out := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Slug, c.Name, c.Description).
		Scan(&out.ID, &out.Slug, &out.Name, &out.Description)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpsertProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO products (id, slug, name, description, price, stock, category_id, image, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		 RETURNING ` + productColumns

	out := &models.Product{}
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.Image, p.IsActive,
	).Scan(&out.ID, &out.Slug, &out.Name, &out.Description, &out.Price, &out.Stock, &out.CategoryID, &out.Image, &out.IsActive, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
