// Package accounts provides the account store gateway: the Repository
// interface the core depends on and its PostgreSQL implementation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// Repository is the store gateway for persisted accounts. Lookups return
// common.ErrorNotFound when no row matches. Create assigns UserID and is
// the final arbiter of the uniqueness and admin-singleton invariants:
// concurrent violations surface as common.ErrDuplicateUsername,
// common.ErrDuplicateEmail, or common.ErrAdminRoleTaken.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	ExistsWithRole(ctx context.Context, role models.Role) (bool, error)
	List(ctx context.Context) ([]models.Account, error)
	CountAll(ctx context.Context) (int64, error)
}
