package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/accountd/internal/server/repositories/accounts"
)

const testSecret = "test-secret"

type fakeRM struct {
	repo *fakeRepo
}

func (f *fakeRM) Accounts(db dbx.DBTX) accountsrepo.Repository { return f.repo }

func (f *fakeRM) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func newTestService(t *testing.T, repo *fakeRepo) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher := auth.NewBcryptHasher()
	issuer := auth.NewIssuer([]byte(testSecret), 0)
	return NewService(db, &fakeRM{repo: repo}, hasher, issuer), mock
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo)

	registered, res, err := svc.Register(context.Background(), validCandidate())
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.NotNil(t, registered)

	require.Equal(t, "alice", registered.Account.Username)
	require.Equal(t, "alice@example.com", registered.Account.Email)
	require.Equal(t, models.RoleMember, registered.Account.Role)
	require.NotEmpty(t, registered.Account.UserID)
	require.False(t, registered.Account.Created.IsZero())

	// The embedded user id must be the created account's id.
	userID, err := auth.GetUserIDFromToken(registered.Token, []byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, registered.Account.UserID, userID)

	// The token must not verify under any other signing key.
	_, err = auth.GetUserIDFromToken(registered.Token, []byte("other-key"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo)

	_, res, err := svc.Register(context.Background(), validCandidate())
	require.NoError(t, err)
	require.True(t, res.Passed)

	stored := repo.byUsername["alice"]
	require.NotNil(t, stored)
	require.NotEqual(t, "s3cret", stored.PasswordHash)
	require.True(t, auth.NewBcryptHasher().Verify("s3cret", stored.PasswordHash))
}

func TestRegister_ValidationFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{UserID: "1", Username: "alice", Email: "x@example.com", Role: models.RoleMember})
	svc, _ := newTestService(t, repo)

	registered, res, err := svc.Register(context.Background(), validCandidate())
	require.NoError(t, err)
	require.Nil(t, registered)
	require.False(t, res.Passed)
	require.Equal(t, KindDuplicate, res.Kind)
	require.Equal(t, 400, res.Status)

	// Nothing was inserted on the failing path.
	for _, call := range repo.calls {
		require.NotEqual(t, "Create", call)
	}
}

func TestRegister_StoreConflictMapsToResult(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{"username race", common.ErrDuplicateUsername, KindDuplicate, "Username already exists."},
		{"email race", common.ErrDuplicateEmail, KindDuplicate, "Email already exists."},
		{"admin race", common.ErrAdminRoleTaken, KindConflict, "Admin already exists."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.createErr = tc.err
			svc, _ := newTestService(t, repo)

			registered, res, err := svc.Register(context.Background(), validCandidate())
			require.NoError(t, err, "a store conflict is a validation outcome, not a fault")
			require.Nil(t, registered)
			require.False(t, res.Passed)
			require.Equal(t, tc.kind, res.Kind)
			require.Equal(t, tc.message, res.Message)
		})
	}
}

func TestRegister_StoreFaultPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("connection reset")
	svc, _ := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), validCandidate())
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo)

	registered, res, err := svc.Register(context.Background(), validCandidate())
	require.NoError(t, err)
	require.True(t, res.Passed)

	session, res, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.NotNil(t, session)
	require.Equal(t, registered.Account.UserID, session.Account.UserID)

	userID, err := auth.GetUserIDFromToken(session.Token, []byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, registered.Account.UserID, userID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo)

	_, res, err := svc.Register(context.Background(), validCandidate())
	require.NoError(t, err)
	require.True(t, res.Passed)

	_, wrongPassword, err := svc.Login(context.Background(), "alice", "nope")
	require.NoError(t, err)
	_, unknownUser, err := svc.Login(context.Background(), "mallory", "nope")
	require.NoError(t, err)

	require.False(t, wrongPassword.Passed)
	require.False(t, unknownUser.Passed)
	require.Equal(t, wrongPassword, unknownUser,
		"unknown username and wrong password must be indistinguishable")
	require.Equal(t, 400, wrongPassword.Status)
	require.Equal(t, "Invalid username or password.", wrongPassword.Message)
}

func TestLogin_StoreFaultPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.lookupErr = errors.New("connection refused")
	svc, _ := newTestService(t, repo)

	_, _, err := svc.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)
}

func TestAccountByID(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{
		UserID: "id-1", Username: "alice", Email: "a@example.com",
		PasswordHash: "hash", Role: models.RoleMember, Created: time.Now(),
	})
	svc, _ := newTestService(t, repo)

	p, err := svc.AccountByID(context.Background(), "id-1")
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)

	_, err = svc.AccountByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDirectory(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{UserID: "1", Username: "alice", Email: "a@example.com", Role: models.RoleAdmin})
	repo.add(&models.Account{UserID: "2", Username: "bob", Email: "b@example.com", Role: models.RoleMember})
	svc, mock := newTestService(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	dir, err := svc.Directory(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), dir.TotalCount)
	require.Len(t, dir.Accounts, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
