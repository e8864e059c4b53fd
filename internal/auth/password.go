package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hashing latency for brute-force resistance. 12 keeps a
// signup under ~300ms on commodity hardware.
const bcryptCost = 12

// HashPassword returns a bcrypt hash of the plaintext password.
// Length policy (minimum 6 characters) is enforced by the caller, not here.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
