package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
)

// GenerateEd25519Key generates a new Ed25519 private key from r (crypto/rand
// when nil). A seeded reader yields the same key every time, which is how the
// dataset keeps its session tokens verifiable across regenerations.
// Returns the private key in PEM format (PKCS8).
func GenerateEd25519Key(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("cryptox: failed to read Ed25519 seed: %w", err)
	}
	privateKey := ed25519.NewKeyFromSeed(seed)

	// Ed25519 keys are always marshaled as PKCS8
	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: privateKeyBytes,
	}), nil
}
