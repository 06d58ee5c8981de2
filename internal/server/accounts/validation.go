// Package accounts implements the account admission and authentication
// core: per-field validators, the ordered registration pipeline, and the
// register/login service.
//
// Expected validation outcomes travel as Result values and are never
// raised as errors; errors are reserved for store and infrastructure
// faults.
package accounts

import "github.com/dmitrijs2005/accountd/internal/server/models"

// Kind tags the reason a validation step failed.
type Kind string

const (
	KindMissingField       Kind = "missing_field"
	KindTooLong            Kind = "too_long"
	KindInvalidEnum        Kind = "invalid_enum"
	KindDuplicate          Kind = "duplicate"
	KindConflict           Kind = "conflict"
	KindInvalidCredentials Kind = "invalid_credentials"
)

// Result is the outcome of a validation step. A passing Result carries no
// kind, status, or message. Failing Results carry an HTTP-ish 400-class
// status and a caller-facing message.
type Result struct {
	Passed  bool
	Kind    Kind
	Status  int
	Message string
}

// Passed returns a passing Result.
func Passed() Result { return Result{Passed: true} }

// Failed returns a failing Result of the given kind.
func Failed(kind Kind, message string) Result {
	return Result{Kind: kind, Status: 400, Message: message}
}

// Field bounds. Username and password share the 31-character cap; email
// gets the usual 255.
const (
	MaxUsernameLen = 31
	MaxEmailLen    = 255
	MaxPasswordLen = 31
)

const (
	msgUsernameMissing = "Username must exist."
	msgUsernameTooLong = "Username cannot be more than 31 characters."
	msgEmailMissing    = "Email must exist."
	msgEmailTooLong    = "Email cannot be more than 255 characters."
	msgPasswordMissing = "Password must exist."
	msgPasswordTooLong = "Password cannot be more than 31 characters."
	msgRoleMissing     = "Role must exist."
	msgRoleInvalid     = "Invalid role requested."
	msgUsernameTaken   = "Username already exists."
	msgEmailTaken      = "Email already exists."
	msgAdminExists     = "Admin already exists."
	msgBadCredentials  = "Invalid username or password."
)

// ValidateUsername checks presence and the length bound. Comparison is
// byte-wise; usernames are case-sensitive.
func ValidateUsername(username string) Result {
	if username == "" {
		return Failed(KindMissingField, msgUsernameMissing)
	}
	if len(username) > MaxUsernameLen {
		return Failed(KindTooLong, msgUsernameTooLong)
	}
	return Passed()
}

// ValidateEmail checks presence and the length bound. Anything non-empty
// within the bound is accepted; there is no shape check.
func ValidateEmail(email string) Result {
	if email == "" {
		return Failed(KindMissingField, msgEmailMissing)
	}
	if len(email) > MaxEmailLen {
		return Failed(KindTooLong, msgEmailTooLong)
	}
	return Passed()
}

// ValidatePassword checks the plaintext before hashing.
func ValidatePassword(password string) Result {
	if password == "" {
		return Failed(KindMissingField, msgPasswordMissing)
	}
	if len(password) > MaxPasswordLen {
		return Failed(KindTooLong, msgPasswordTooLong)
	}
	return Passed()
}

// ValidateRole checks presence and membership in the closed role set.
func ValidateRole(role models.Role) Result {
	if role == "" {
		return Failed(KindMissingField, msgRoleMissing)
	}
	if !role.Valid() {
		return Failed(KindInvalidEnum, msgRoleInvalid)
	}
	return Passed()
}
