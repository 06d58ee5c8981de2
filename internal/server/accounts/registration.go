package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/accountd/internal/server/repositories/accounts"
)

// Candidate is the record submitted for admission. Role is expected to be
// defaulted by the caller before validation.
type Candidate struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

// Validator decides whether a Candidate may become an Account. Checks run
// in a fixed order and stop at the first failure: each field's structural
// check precedes its uniqueness lookup, and the cheapest checks run before
// any store round-trip. The whole-record admin-singleton check runs last,
// once the role value is known to be structurally valid.
//
// The uniqueness lookups are advisory under concurrency; the store's
// constraints remain authoritative and the service maps their violations
// back to the same Results.
type Validator struct {
	repo accountsrepo.Repository
}

func NewValidator(repo accountsrepo.Repository) *Validator {
	return &Validator{repo: repo}
}

// ValidateNewUsername runs the structural username check, then the
// uniqueness lookup.
func (v *Validator) ValidateNewUsername(ctx context.Context, username string) (Result, error) {
	if res := ValidateUsername(username); !res.Passed {
		return res, nil
	}

	_, err := v.repo.GetByUsername(ctx, username)
	if err == nil {
		return Failed(KindDuplicate, msgUsernameTaken), nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return Result{}, fmt.Errorf("checking username uniqueness: %w", err)
	}
	return Passed(), nil
}

// ValidateNewEmail runs the structural email check, then the uniqueness
// lookup.
func (v *Validator) ValidateNewEmail(ctx context.Context, email string) (Result, error) {
	if res := ValidateEmail(email); !res.Passed {
		return res, nil
	}

	_, err := v.repo.GetByEmail(ctx, email)
	if err == nil {
		return Failed(KindDuplicate, msgEmailTaken), nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return Result{}, fmt.Errorf("checking email uniqueness: %w", err)
	}
	return Passed(), nil
}

// ValidateNewRole runs the structural role check and, for admin, the
// singleton check: at most one admin account may exist.
func (v *Validator) ValidateNewRole(ctx context.Context, role models.Role) (Result, error) {
	if res := ValidateRole(role); !res.Passed {
		return res, nil
	}

	if role == models.RoleAdmin {
		taken, err := v.repo.ExistsWithRole(ctx, models.RoleAdmin)
		if err != nil {
			return Result{}, fmt.Errorf("checking admin singleton: %w", err)
		}
		if taken {
			return Failed(KindConflict, msgAdminExists), nil
		}
	}
	return Passed(), nil
}

// ValidateNewAccount runs the full admission pipeline. The first failing
// step terminates the chain with its Result; a returned error means a
// store fault, not a validation outcome.
func (v *Validator) ValidateNewAccount(ctx context.Context, cand Candidate) (Result, error) {
	res, err := v.ValidateNewUsername(ctx, cand.Username)
	if err != nil || !res.Passed {
		return res, err
	}

	res, err = v.ValidateNewEmail(ctx, cand.Email)
	if err != nil || !res.Passed {
		return res, err
	}

	if res = ValidatePassword(cand.Password); !res.Passed {
		return res, nil
	}

	res, err = v.ValidateNewRole(ctx, cand.Role)
	if err != nil || !res.Passed {
		return res, err
	}

	return Passed(), nil
}
