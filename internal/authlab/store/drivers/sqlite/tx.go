package sqlite

import (
	"database/sql"

	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

// txRepos binds every repository to one open transaction.
type txRepos struct{ tx *sql.Tx }

func (t txRepos) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t txRepos) Sessions() store.Sessions             { return &sessionsRepo{db: t.tx} }
func (t txRepos) APIKeys() store.APIKeys               { return &apiKeysRepo{db: t.tx} }
func (t txRepos) PasswordResets() store.PasswordResets { return &passwordResetsRepo{db: t.tx} }
func (t txRepos) AuditLog() store.AuditLog             { return &auditLogRepo{db: t.tx} }
func (t txRepos) Tables() store.Tables                 { return &tablesRepo{db: t.tx} }
