package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// Constraint names from the accounts migration, used to tell apart which
// invariant a unique violation hit.
const (
	constraintUsername = "accounts_username_key"
	constraintEmail    = "accounts_email_key"
	constraintOneAdmin = "accounts_one_admin_idx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account with a freshly assigned UserID. Unique
// violations are mapped to sentinel errors by constraint name so the
// service can turn them into validation outcomes.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (user_id, username, email, password_hash, role, created)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING user_id
		 `

	account.UserID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		account.UserID, account.Username, account.Email,
		account.PasswordHash, account.Role, account.Created).Scan(&account.UserID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case constraintUsername:
				return nil, common.ErrDuplicateUsername
			case constraintEmail:
				return nil, common.ErrDuplicateEmail
			case constraintOneAdmin:
				return nil, common.ErrAdminRoleTaken
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, role, created FROM accounts
		 WHERE username = $1
		 `
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, role, created FROM accounts
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, role, created FROM accounts
		 WHERE user_id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.UserID, &account.Username, &account.Email,
		&account.PasswordHash, &account.Role, &account.Created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) ExistsWithRole(ctx context.Context, role models.Role) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE role = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, role).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, role, created FROM accounts
		 ORDER BY created
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.UserID, &account.Username, &account.Email,
			&account.PasswordHash, &account.Role, &account.Created); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	query :=
		`SELECT COUNT(1) FROM accounts
		 `

	var total int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}
