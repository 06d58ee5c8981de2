// Package auth implements the credential primitives the account core
// depends on: HS256 identity tokens and bcrypt password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/accountd/internal/common"
)

// Claims carries the registered claims plus the account id payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateToken signs a token embedding userID. A zero validity omits the
// expiry claim entirely; the token then never expires.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims := Claims{UserID: userID}
	if validityDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the token signature and structure and
// returns the embedded account id. Expired tokens yield
// common.ErrTokenExpired; anything else malformed or mis-signed yields
// common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// Issuer mints identity tokens with a process-wide signing key, loaded
// once at startup.
type Issuer struct {
	secret   []byte
	validity time.Duration
}

// NewIssuer constructs an Issuer. validity of zero means tokens carry no
// expiry claim.
func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity}
}

// Issue mints a token for a persisted account id. An empty id is a
// programmer error: this path is only reachable after a successful
// insert, which always assigns one.
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", common.ErrMissingUserID
	}
	return GenerateToken(userID, i.secret, i.validity)
}
