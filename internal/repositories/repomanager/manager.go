package repomanager

import (
	"context"
	"database/sql"

	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/repositories/addresses"
	"github.com/naazbookdepot/shopauth/internal/repositories/carts"
	"github.com/naazbookdepot/shopauth/internal/repositories/orders"
	"github.com/naazbookdepot/shopauth/internal/repositories/products"
	"github.com/naazbookdepot/shopauth/internal/repositories/reviews"
	"github.com/naazbookdepot/shopauth/internal/repositories/users"
	"github.com/naazbookdepot/shopauth/internal/repositories/wishlists"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Addresses(db dbx.DBTX) addresses.Repository
	Carts(db dbx.DBTX) carts.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Products(db dbx.DBTX) products.Repository
	Wishlists(db dbx.DBTX) wishlists.Repository
	Orders(db dbx.DBTX) orders.Repository
}
