package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the Argon2id cost parameters. The users table stores the
// hash and the salt in separate hex columns, so the parameters are not encoded
// alongside the hash and must be known to whoever verifies it.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	SaltLength  = 16        // Length of the salt
)

// DefaultArgon2 mirrors a production-grade login hash.
var DefaultArgon2 = Argon2Params{
	Memory:      memory,
	Iterations:  iterations,
	Parallelism: parallelism,
	KeyLength:   keyLength,
}

var ErrPasswordMismatch = errors.New("password does not match")

// GenerateSalt reads SaltLength bytes from r. Pass nil to use crypto/rand.
func GenerateSalt(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives an Argon2id hash of password with the given salt and
// returns it hex encoded.
func HashPassword(password string, salt []byte, p Argon2Params) string {
	hash := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return hex.EncodeToString(hash)
}

// VerifyPassword compares a plaintext password against hex encoded hash and
// salt columns.
func VerifyPassword(password, hexHash, hexSalt string, p Argon2Params) error {
	salt, err := hex.DecodeString(hexSalt)
	if err != nil {
		return fmt.Errorf("invalid salt encoding: %w", err)
	}
	expected, err := hex.DecodeString(hexHash)
	if err != nil {
		return fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(expected) == 0 {
		return errors.New("invalid hash: empty")
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		uint32(len(expected)), // #nosec G115 - hash columns are 32 bytes
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// GeneratePassword returns a 12 character alphanumeric password drawn from r.
// Pass nil to use crypto/rand.
func GeneratePassword(r io.Reader) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	if r == nil {
		r = rand.Reader
	}
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(r, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
