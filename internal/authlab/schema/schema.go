// Package schema is the catalogue of the five authentication tables: their
// ordered columns, keys, flag and timestamp columns. The migrations, the
// validator and the exporters all read it instead of repeating column lists.
package schema

import "slices"

// Table names.
const (
	TableUsers          = "users"
	TableSessions       = "sessions"
	TableAPIKeys        = "api_keys"
	TablePasswordResets = "password_resets"
	TableAuditLog       = "audit_log"
)

// Reference is a foreign key from Column to RefTable.RefColumn.
type Reference struct {
	Column    string
	RefTable  string
	RefColumn string
}

type Table struct {
	Name       string
	Columns    []string // in declaration order
	PrimaryKey string
	Flags      []string // "1"/"0" columns
	Timestamps []string // RFC 3339 UTC columns
	Nullable   []string
	References []Reference
}

func (t Table) HasColumn(col string) bool   { return slices.Contains(t.Columns, col) }
func (t Table) IsFlag(col string) bool      { return slices.Contains(t.Flags, col) }
func (t Table) IsTimestamp(col string) bool { return slices.Contains(t.Timestamps, col) }
func (t Table) IsNullable(col string) bool  { return slices.Contains(t.Nullable, col) }

// ColumnIndex returns the position of col or -1.
func (t Table) ColumnIndex(col string) int { return slices.Index(t.Columns, col) }

var userRef = Reference{Column: "user_id", RefTable: TableUsers, RefColumn: "user_id"}

var (
	Users = Table{
		Name: TableUsers,
		Columns: []string{
			"user_id", "username", "email", "password_hash", "salt",
			"role", "mfa_enabled", "created_at", "last_login",
		},
		PrimaryKey: "user_id",
		Flags:      []string{"mfa_enabled"},
		Timestamps: []string{"created_at", "last_login"},
		Nullable:   []string{"last_login"},
	}

	Sessions = Table{
		Name: TableSessions,
		Columns: []string{
			"session_id", "user_id", "token", "ip_address", "user_agent",
			"created_at", "expires_at", "is_active",
		},
		PrimaryKey: "session_id",
		Flags:      []string{"is_active"},
		Timestamps: []string{"created_at", "expires_at"},
		References: []Reference{userRef},
	}

	APIKeys = Table{
		Name: TableAPIKeys,
		Columns: []string{
			"key_id", "user_id", "key_hash", "scope",
			"created_at", "expires_at", "is_revoked",
		},
		PrimaryKey: "key_id",
		Flags:      []string{"is_revoked"},
		Timestamps: []string{"created_at", "expires_at"},
		Nullable:   []string{"expires_at"},
		References: []Reference{userRef},
	}

	PasswordResets = Table{
		Name: TablePasswordResets,
		Columns: []string{
			"reset_id", "user_id", "reset_token",
			"requested_at", "used_at", "ip_address",
		},
		PrimaryKey: "reset_id",
		Timestamps: []string{"requested_at", "used_at"},
		Nullable:   []string{"used_at"},
		References: []Reference{userRef},
	}

	// AuditLog.user_id is nullable: unattributed events reference nobody.
	AuditLog = Table{
		Name: TableAuditLog,
		Columns: []string{
			"event_id", "user_id", "event_type",
			"ip_address", "details", "created_at",
		},
		PrimaryKey: "event_id",
		Timestamps: []string{"created_at"},
		Nullable:   []string{"user_id"},
		References: []Reference{userRef},
	}
)

var all = []Table{Users, Sessions, APIKeys, PasswordResets, AuditLog}

// All returns every table in dependency order (users first).
func All() []Table { return slices.Clone(all) }

// Names returns every table name in dependency order.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name
	}
	return names
}

func Lookup(name string) (Table, bool) {
	for _, t := range all {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
