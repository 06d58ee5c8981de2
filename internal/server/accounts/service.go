package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
)

// PasswordHasher derives and verifies one-way password hashes. Verify
// must tolerate malformed stored hashes and report them as a mismatch.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// TokenIssuer mints a signed identity token for a persisted account.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Registered is the outcome of a successful registration.
type Registered struct {
	Account models.Projection
	Token   string
}

// Session is the outcome of a successful login.
type Session struct {
	Account models.Projection
	Token   string
}

// Directory is a consistent snapshot of all accounts.
type Directory struct {
	TotalCount int64
	Accounts   []models.Projection
}

// Service orchestrates registration and login. It owns no account state:
// every flow reads and writes through the repository, and nothing is
// cached between calls.
type Service struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	hasher PasswordHasher
	issuer TokenIssuer
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, hasher PasswordHasher, issuer TokenIssuer) *Service {
	return &Service{db: db, rm: rm, hasher: hasher, issuer: issuer}
}

// Register admits cand through the validation pipeline and, on pass,
// hashes the password, persists the account, and mints a token. A failing
// Result reports an expected validation outcome; a non-nil error is a
// store or infrastructure fault.
func (s *Service) Register(ctx context.Context, cand Candidate) (*Registered, Result, error) {
	repo := s.rm.Accounts(s.db)

	res, err := NewValidator(repo).ValidateNewAccount(ctx, cand)
	if err != nil {
		return nil, Result{}, err
	}
	if !res.Passed {
		return nil, res, nil
	}

	hash, err := s.hasher.Hash(cand.Password)
	if err != nil {
		return nil, Result{}, fmt.Errorf("hashing password: %w", err)
	}

	account := &models.Account{
		Username:     cand.Username,
		Email:        cand.Email,
		PasswordHash: hash,
		Role:         cand.Role,
		Created:      time.Now().UTC(),
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		// A concurrent insert can beat the advisory pre-checks; the store's
		// constraints win and the violation comes back as the same Result
		// the pre-check would have produced.
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			return nil, Failed(KindDuplicate, msgUsernameTaken), nil
		case errors.Is(err, common.ErrDuplicateEmail):
			return nil, Failed(KindDuplicate, msgEmailTaken), nil
		case errors.Is(err, common.ErrAdminRoleTaken):
			return nil, Failed(KindConflict, msgAdminExists), nil
		}
		return nil, Result{}, fmt.Errorf("creating account: %w", err)
	}

	token, err := s.issuer.Issue(created.UserID)
	if err != nil {
		return nil, Result{}, fmt.Errorf("issuing token: %w", err)
	}

	return &Registered{Account: created.Project(), Token: token}, Passed(), nil
}

// Login verifies username+password and, on success, returns the safe
// projection plus a fresh token. Unknown username and wrong password
// produce the identical Result so callers cannot probe for account
// existence.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, Result, error) {
	repo := s.rm.Accounts(s.db)

	account, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, Failed(KindInvalidCredentials, msgBadCredentials), nil
		}
		return nil, Result{}, fmt.Errorf("looking up account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, Failed(KindInvalidCredentials, msgBadCredentials), nil
	}

	token, err := s.issuer.Issue(account.UserID)
	if err != nil {
		return nil, Result{}, fmt.Errorf("issuing token: %w", err)
	}

	return &Session{Account: account.Project(), Token: token}, Passed(), nil
}

// AccountByID returns the safe projection for the given id, or
// common.ErrorNotFound.
func (s *Service) AccountByID(ctx context.Context, id string) (*models.Projection, error) {
	account, err := s.rm.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := account.Project()
	return &p, nil
}

// Directory lists all accounts together with the total count, read inside
// one read-only transaction so the two agree.
func (s *Service) Directory(ctx context.Context) (*Directory, error) {
	var dir Directory
	err := dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Accounts(tx)

		accounts, err := repo.List(ctx)
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}
		total, err := repo.CountAll(ctx)
		if err != nil {
			return fmt.Errorf("counting accounts: %w", err)
		}

		dir.TotalCount = total
		dir.Accounts = make([]models.Projection, 0, len(accounts))
		for i := range accounts {
			dir.Accounts = append(dir.Accounts, accounts[i].Project())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dir, nil
}
