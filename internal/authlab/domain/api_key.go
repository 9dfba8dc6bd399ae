package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	ScopeRead    = "read"
	ScopeWrite   = "write"
	ScopeAdmin   = "admin"
	ScopeBilling = "billing"
)

// Scopes lists every permission an API key may carry.
var Scopes = []string{ScopeRead, ScopeWrite, ScopeAdmin, ScopeBilling}

type APIKey struct {
	ID        string
	UserID    string
	KeyHash   string   // deterministic fingerprint (base64url SHA-256)
	Scopes    []string // Parsed from space-delimited storage
	CreatedAt time.Time
	ExpiresAt *time.Time // nil for keys that never expire
	Revoked   bool
}

// ParseScopes splits a space-delimited scope column, dropping duplicates and
// rejecting unknown permissions.
func ParseScopes(s string) ([]string, error) {
	parts := strings.Fields(s)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if !slices.Contains(Scopes, p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidScope, p)
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func FormatScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}
