package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
)

const userColumns = `id, email, name, COALESCE(password_hash, ''), role, COALESCE(mfa_secret, ''), mfa_enabled, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.MFASecret, &u.MFAEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// wrap maps driver errors onto models errors.
// emailConstraint is the unique constraint Postgres names for users.email.
const emailConstraint = "users_email_key"

func wrap(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.ErrNotFound
	case dbx.IsUniqueViolation(err) && dbx.ConstraintName(err) == emailConstraint:
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

// Create inserts user. An empty ID is replaced with a new UUID.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, wrap(err)
	}

	return user, nil
}

// GetByEmail matches email exactly so the unique index on users.email serves
// the lookup. Emails are stored lowercased.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, c Changes) (*models.User, error) {
	query :=
		`UPDATE users
		 SET name = COALESCE($2, name),
		     email = COALESCE($3, email),
		     password_hash = COALESCE($4, password_hash),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, nullable(c.Name), nullable(c.Email), nullable(c.PasswordHash)))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

// SetMFA stores secret (NULL when empty) and the enabled flag.
func (r *PostgresRepository) SetMFA(ctx context.Context, id string, secret string, enabled bool) error {
	query :=
		`UPDATE users
		 SET mfa_secret = NULLIF($2, ''), mfa_enabled = $3, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, secret, enabled)
	if err != nil {
		return wrap(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrap(err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
