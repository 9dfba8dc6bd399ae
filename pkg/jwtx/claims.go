package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime given to generated sessions when the
// generator is not told otherwise.
const DefaultSessionTTL = 12 * time.Hour

// Claims are the claims embedded in every sessions.token value.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID, equal to sessions.session_id
	SID string `json:"sid,omitempty"`

	// Role of the user at issue time
	Role string `json:"role,omitempty"`

	// Authentication Methods Reference ["pwd","otp"]
	//		"pwd": Password-based Authentication
	//		"otp": One-time Password (TOTP)
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds the claims for a session row. The jti is supplied by
// the caller so that seeded datasets stay reproducible.
func NewSessionClaims(
	subject, sid, role string,
	amr []string,
	issuer, jti string,
	issuedAt, expiresAt time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
		SID:  sid,
		Role: role,
		AMR:  amr,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiryAt ensures the token had not expired (exp) and was already
// valid (nbf) at the instant now. Snapshots are historical, so callers pass
// the instant they care about instead of wall-clock time.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
