package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// VerifyOptions are the expectations a token is checked against. Zero
// values skip the corresponding check.
type VerifyOptions struct {
	Issuer   string
	Audience []string

	// Now is the instant exp and nbf are checked at. Nil skips the time
	// checks, which is what verifying an archived snapshot needs.
	Now    func() time.Time
	Leeway time.Duration
}

// EdDSAVerifier checks EdDSA tokens against a KeySet.
type EdDSAVerifier struct {
	keys   *KeySet
	opts   VerifyOptions
	parser *jwt.Parser
}

func NewVerifierEdDSA(keys *KeySet, opts VerifyOptions) *EdDSAVerifier {
	return &EdDSAVerifier{
		keys: keys,
		opts: opts,
		// time claims are checked against opts.Now below
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (v *EdDSAVerifier) keyFor(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}
	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}
	return pub, nil
}

// Verify checks the signature and claims of tokenStr and returns its claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, v.keyFor)
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	case err != nil:
		return nil, fmt.Errorf("jwtx: verify: %w", err)
	case !token.Valid:
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return nil, err
	}
	if v.opts.Now != nil {
		if err := claims.ValidateExpiryAt(v.opts.Now(), v.opts.Leeway); err != nil {
			return nil, err
		}
	}
	return claims, nil
}
