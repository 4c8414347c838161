package user

import (
	"fmt"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches ten salt rounds.
const DefaultBcryptCost = 10

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "bcrypt":
		return NewBcryptHasher(DefaultBcryptCost), nil
	case "argon2id":
		return NewArgon2idHasher(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher: %s", name)
	}
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash generates a bcrypt hash of the given password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Argon2idHasher hashes passwords with argon2id.
type Argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2idHasher creates an Argon2idHasher with the library defaults.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: argon2id.DefaultParams}
}

// Hash generates an encoded argon2id hash of the given password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

// Verify checks if the provided password matches the hash.
func (h *Argon2idHasher) Verify(password, hash string) bool {
	ok, err := argon2id.ComparePasswordAndHash(password, hash)
	return err == nil && ok
}
