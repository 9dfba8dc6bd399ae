package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleService Role = "service"
	RoleAuditor Role = "auditor"
)

// Roles lists every valid role in catalogue order.
var Roles = []Role{RoleAdmin, RoleUser, RoleService, RoleAuditor}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id, hex
	Salt         string // hex
	Role         Role
	MFAEnabled   bool
	CreatedAt    time.Time
	LastLogin    *time.Time // nil until the first successful login
}
