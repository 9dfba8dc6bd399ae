package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	_ "modernc.org/sqlite"
)

// DBTX is the subset of database/sql used by the repos. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

type options struct {
	foreignKeys bool
}

type Option func(*options)

// WithForeignKeys toggles PRAGMA foreign_keys. Leave it on when writing a
// clean dataset; turn it off to load or plant orphaned rows.
func WithForeignKeys(enabled bool) Option {
	return func(o *options) { o.foreignKeys = enabled }
}

func NewStore(dsn string, opts ...Option) (*Store, error) {
	o := options{foreignKeys: true}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", withPragmas(dsn, o))
	if err != nil {
		return nil, err
	}

	// Each connection to :memory: is a distinct database
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

// withPragmas appends _pragma parameters so every pooled connection gets
// them, not only the first.
func withPragmas(dsn string, o options) string {
	fk := 0
	if o.foreignKeys {
		fk = 1
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(%d)&_pragma=busy_timeout(5000)", dsn, sep, fk)
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn in a transaction. A panic in fn rolls back too.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	if err := fn(txRepos{tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users                   { return &usersRepo{db: s.db} }
func (s *Store) Sessions() store.Sessions             { return &sessionsRepo{db: s.db} }
func (s *Store) APIKeys() store.APIKeys               { return &apiKeysRepo{db: s.db} }
func (s *Store) PasswordResets() store.PasswordResets { return &passwordResetsRepo{db: s.db} }
func (s *Store) AuditLog() store.AuditLog             { return &auditLogRepo{db: s.db} }
func (s *Store) Tables() store.Tables                 { return &tablesRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns a primary key or unique violation into ErrAlreadyExists.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY") {
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
	return err
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullString {
	return mapOptionalString(domain.FormatTimePtr(t))
}

func mapNullTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := domain.ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// limitOffset maps a Page to SQLite LIMIT/OFFSET arguments; LIMIT -1 is
// unbounded.
func limitOffset(p store.Page) (int, int) {
	limit := p.Limit
	if limit <= 0 {
		limit = -1
	}
	return limit, max(p.Offset, 0)
}

// rowError attributes a decode failure to the row it came from.
func rowError(table, id string, err error) error {
	return fmt.Errorf("%s %s: %w", table, id, err)
}

type scanner interface {
	Scan(dest ...any) error
}

// selectFrom builds "SELECT <cols> FROM <table>" from the catalogue order.
func selectFrom(table string, columns []string) string {
	return "SELECT " + strings.Join(columns, ", ") + " FROM " + table
}

// insertInto builds a positional INSERT covering every catalogued column.
func insertInto(table string, columns []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + marks + ")"
}

func countRows(ctx context.Context, db DBTX, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
