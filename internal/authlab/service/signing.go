package service

import (
	"fmt"

	"github.com/aussiebroadwan/authlab/pkg/cryptox"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
)

// DatasetSigningKey derives the Ed25519 key that signs the session tokens of
// the dataset generated from seed. It returns the PEM private key and a signer
// whose kid is a thumbprint of the public key.
func DatasetSigningKey(seed uint64) ([]byte, jwtx.Signer, error) {
	pemKey, err := cryptox.GenerateEd25519Key(newRNG(seed, "signing-key"))
	if err != nil {
		return nil, nil, err
	}
	signer, err := SignerFromPEM(pemKey)
	if err != nil {
		return nil, nil, err
	}
	return pemKey, signer, nil
}

// SignerFromPEM loads a PKCS8 Ed25519 key written by DatasetSigningKey.
func SignerFromPEM(pemKey []byte) (jwtx.Signer, error) {
	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	return signer, nil
}

// KeySetFromPEM builds the verification KeySet for a dataset signing key.
func KeySetFromPEM(pemKey []byte) (*jwtx.KeySet, error) {
	signer, err := SignerFromPEM(pemKey)
	if err != nil {
		return nil, err
	}
	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}
	return keys, nil
}
