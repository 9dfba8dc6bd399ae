package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// JWK is an RFC 8037 OKP public key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewEd25519JWK describes pub as an OKP key on Ed25519.
func NewEd25519JWK(kid, use, alg string, pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: "OKP",
		Use: use,
		Alg: alg,
		Kid: kid,
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

func (j JWK) ed25519() (ed25519.PublicKey, error) {
	if j.Kty != "OKP" || j.Crv != "Ed25519" {
		return nil, fmt.Errorf("jwtx: unsupported key %s/%s", j.Kty, j.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode x: %w", err)
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 public key size")
	}
	return ed25519.PublicKey(x), nil
}

// KeySet is the set of verification keys of a dataset, indexed by kid. It is
// safe for concurrent use.
type KeySet struct {
	mu   sync.RWMutex
	keys []JWK
	byID map[string]ed25519.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{byID: make(map[string]ed25519.PublicKey)}
}

// AddSigner publishes the public half of s.
func (k *KeySet) AddSigner(s Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds j, replacing any key with the same kid.
func (k *KeySet) AddJWK(j JWK) error {
	pub, err := j.ed25519()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, dup := k.byID[j.Kid]; dup {
		for i := range k.keys {
			if k.keys[i].Kid == j.Kid {
				k.keys[i] = j
			}
		}
	} else {
		k.keys = append(k.keys, j)
	}
	k.byID[j.Kid] = pub
	return nil
}

func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pub, ok := k.byID[kid]
	if !ok {
		return nil, ErrNoKey
	}
	return pub, nil
}

// Len is the number of keys held.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

// PublicJWKS returns a copy of the set as served on /.well-known/jwks.json.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return JWKS{Keys: append([]JWK(nil), k.keys...)}
}
