package auth

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor. bcrypt salts every hash itself, so
// two hashes of the same plaintext differ.
const HashCost = 10

// BcryptHasher implements the core's PasswordHasher over bcrypt.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: HashCost}
}

// Hash derives a salted one-way hash of the plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = HashCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext reproduces the stored hash. Malformed
// hashes verify as false rather than erroring, since the plaintext side
// is attacker-controlled.
func (h *BcryptHasher) Verify(plaintext, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
}
