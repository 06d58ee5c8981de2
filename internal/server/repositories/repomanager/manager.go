// Package repomanager vends repository implementations bound to a
// database handle and owns schema migrations and connection setup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/accounts"
)

// RepositoryManager hands out repositories bound to the provided DBTX,
// which may be a *sql.DB or an open transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
