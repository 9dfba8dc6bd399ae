package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrUnknownTable  = errors.New("store: unknown table")
	ErrUnknownColumn = errors.New("store: unknown column")
)

// Repos are the per-table repositories plus a generic table reader used by
// the frame, validator and exporters.
type Repos interface {
	Users() Users
	Sessions() Sessions
	APIKeys() APIKeys
	PasswordResets() PasswordResets
	AuditLog() AuditLog
	Tables() Tables
}

// Store is the data access interface over one dataset file.
type Store interface {
	Repos

	ApplyMigrations() error

	// WithTx runs fn in one transaction, committed when fn returns nil and
	// rolled back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx is the repositories of an open transaction. WithTx owns its lifetime.
type Tx interface {
	Repos
}

// Page bounds a List call. A non-positive Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

type Users interface {
	Insert(ctx context.Context, u domain.User) error
	Get(ctx context.Context, id string) (domain.User, error)
	// List returns users ordered by user_id, i.e. by creation time.
	List(ctx context.Context, page Page) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

type Sessions interface {
	Insert(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context, page Page) ([]domain.Session, error)
	// ListByUser returns a user's sessions oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	Count(ctx context.Context) (int, error)
}

type APIKeys interface {
	Insert(ctx context.Context, k domain.APIKey) error
	Get(ctx context.Context, id string) (domain.APIKey, error)
	List(ctx context.Context, page Page) ([]domain.APIKey, error)
	Count(ctx context.Context) (int, error)
}

type PasswordResets interface {
	Insert(ctx context.Context, r domain.PasswordReset) error
	Get(ctx context.Context, id string) (domain.PasswordReset, error)
	List(ctx context.Context, page Page) ([]domain.PasswordReset, error)
	Count(ctx context.Context) (int, error)
}

type AuditLog interface {
	Insert(ctx context.Context, e domain.AuditEvent) error
	Get(ctx context.Context, id string) (domain.AuditEvent, error)
	List(ctx context.Context, page Page) ([]domain.AuditEvent, error)
	Count(ctx context.Context) (int, error)
}

// Rows is an untyped page of a table. Every value is the raw TEXT stored in
// the file, NULL included.
type Rows struct {
	Table   string
	Columns []string
	Values  [][]sql.NullString
}

// Tables reads whatever tables the file actually contains, catalogued or not,
// so that a malformed snapshot can still be inspected.
type Tables interface {
	// List returns the user tables present in the file, sorted by name.
	List(ctx context.Context) ([]string, error)
	// Columns returns the declared columns of table in order.
	Columns(ctx context.Context, table string) ([]string, error)
	// Read returns up to limit rows starting at offset, in rowid order or
	// primary key order for a WITHOUT ROWID table.
	Read(ctx context.Context, table string, page Page) (Rows, error)
	// Count returns the row count of table.
	Count(ctx context.Context, table string) (int, error)
	// SetValue overwrites a single cell addressed by its primary key. It is
	// how raw, possibly invalid values are planted in a snapshot.
	SetValue(ctx context.Context, table, keyColumn, key, column string, value *string) error
}
