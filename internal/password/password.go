// Package password wraps bcrypt hashing with the timing discipline the login
// flow needs: the comparison cost is paid whether or not the account exists.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the minimum accepted password length.
const MinLength = 8

// dummyHash is compared against when no real hash is available, so a lookup
// miss costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ErrTooShort is returned by Hash for passwords under MinLength.
var ErrTooShort = errors.New("password too short")

// Hash derives a bcrypt hash from a plaintext password.
func Hash(plaintext string) (string, error) {
	if len(plaintext) < MinLength {
		return "", ErrTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. An empty hash still runs a
// full bcrypt comparison against a dummy value and reports false.
func Verify(hash, plaintext string) bool {
	target := hash
	if target == "" {
		target = dummyHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(target), []byte(plaintext))
	return err == nil && hash != ""
}
