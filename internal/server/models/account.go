// Package models holds the persisted entities of the account service.
package models

import "time"

// Role is the closed set of permission levels an account can hold.
type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleMember, RoleModerator, RoleAdmin}
}

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Account is the persisted user record. UserID is assigned at insert time
// and immutable afterwards, as is Created. PasswordHash never leaves the
// repository/hasher boundary; use Projection for anything caller-facing.
type Account struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Created      time.Time
}

// Projection is the externally visible subset of an Account.
type Projection struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Created  time.Time `json:"created"`
}

// Project returns the safe external view of the account.
func (a *Account) Project() Projection {
	return Projection{
		UserID:   a.UserID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		Created:  a.Created,
	}
}
