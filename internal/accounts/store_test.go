package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "name", "password_hash", "role", "mfa_secret", "mfa_enabled", "created_at", "updated_at"}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewStore(db, repomanager.NewPostgresRepositoryManager()), mock, db
}

func TestGetUserByEmail(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+lower\(email\)`).
		WithArgs("customer@naazbookdepot.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "customer@naazbookdepot.com", "Customer", "$2a$10$x", "USER", "", false, now, now))

	rec, err := store.GetUserByEmail(context.Background(), "customer@naazbookdepot.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", rec.ID)
	assert.Equal(t, shopauth.RoleUser, rec.Role)
}

func TestGetUserByID_NotFound(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	id := "5f0c1d7e-2a4b-4c6d-8e9f-0a1b2c3d4e5f"
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	_, err := store.GetUserByID(context.Background(), id)
	assert.ErrorIs(t, err, shopauth.ErrUserNotFound)
}

func TestGetUserByID_MalformedIDSkipsQuery(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	_, err := store.GetUserByID(context.Background(), "nope")
	assert.ErrorIs(t, err, shopauth.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := store.CreateUser(context.Background(), shopauth.CreateUserInput{
		Email: "a@b.com", Name: "A", PasswordHash: "h", Role: shopauth.RoleUser,
	})
	assert.ErrorIs(t, err, shopauth.ErrEmailInUse)
}

func TestSetMFA_PassesThroughDriverError(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users`).WillReturnError(errors.New("conn reset"))

	err := store.SetMFA(context.Background(), "u-1", "SECRET", false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shopauth.ErrUserNotFound)
	assert.ErrorContains(t, err, "conn reset")
}

func TestDeleteUser_CascadesInOneTransaction(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	ok := sqlmock.NewResult(0, 1)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+cart_items`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+carts`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+addresses`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+wishlists`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+reviews`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+order_items`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+orders`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+users`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectCommit()

	require.NoError(t, store.DeleteUser(context.Background(), "u-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_RollsBackOnFailure(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	ok := sqlmock.NewResult(0, 1)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+cart_items`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+carts`).WithArgs("u-1").WillReturnResult(ok)
	mock.ExpectExec(`DELETE\s+FROM\s+addresses`).WithArgs("u-1").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := store.DeleteUser(context.Background(), "u-1")
	assert.ErrorContains(t, err, "delete addresses")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_MissingUser(t *testing.T) {
	store, mock, db := newStore(t)
	defer db.Close()

	none := sqlmock.NewResult(0, 0)
	mock.ExpectBegin()
	for i := 0; i < 7; i++ {
		mock.ExpectExec(`DELETE\s+FROM`).WillReturnResult(none)
	}
	mock.ExpectExec(`DELETE\s+FROM\s+users`).WithArgs("ghost").WillReturnResult(none)
	mock.ExpectRollback()

	err := store.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, shopauth.ErrUserNotFound)
}
