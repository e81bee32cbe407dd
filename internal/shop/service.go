// Package shop holds the storefront operations that sit behind a session:
// saved addresses, the cart and product reviews.
package shop

import (
	"database/sql"

	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
)

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop{}
	}
	return &Service{
		db:          db,
		repomanager: m,
		log:         log.With("module", "shop"),
	}
}
