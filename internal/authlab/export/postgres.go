package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

// ErrTableNotEmpty stops an export that would append to existing rows.
var ErrTableNotEmpty = errors.New("export: target table is not empty")

// PostgresExporter copies a snapshot into PostgreSQL. Every column is TEXT
// so noisy values survive the trip unchanged.
type PostgresExporter struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	// Replace drops existing tables first. Without it a table that already
	// holds rows fails the export with ErrTableNotEmpty. No keys are
	// declared, since a noisy snapshot may repeat them.
	Replace bool
}

// NewPostgresPool opens a pool and pings it.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Export creates the catalogued tables and bulk copies their rows in one
// transaction. Tables missing from the snapshot are skipped.
func (e *PostgresExporter) Export(ctx context.Context, tables store.Tables) (map[string]int64, error) {
	present, err := tables.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[name] = true
	}

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	counts := make(map[string]int64)
	for _, tbl := range schema.All() {
		if !have[tbl.Name] {
			continue
		}
		f, err := frame.Read(ctx, tables, tbl.Name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tbl.Name, err)
		}
		if e.Replace {
			if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{tbl.Name}.Sanitize()); err != nil {
				return nil, fmt.Errorf("drop %s: %w", tbl.Name, err)
			}
		}
		if _, err := tx.Exec(ctx, createTable(tbl.Name, f.Columns)); err != nil {
			return nil, fmt.Errorf("create %s: %w", tbl.Name, err)
		}
		if !e.Replace {
			var occupied bool
			q := "SELECT EXISTS (SELECT 1 FROM " + pgx.Identifier{tbl.Name}.Sanitize() + ")"
			if err := tx.QueryRow(ctx, q).Scan(&occupied); err != nil {
				return nil, fmt.Errorf("inspect %s: %w", tbl.Name, err)
			}
			if occupied {
				return nil, fmt.Errorf("%w: %s (use --replace)", ErrTableNotEmpty, tbl.Name)
			}
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{tbl.Name}, f.Columns, pgx.CopyFromRows(copyRows(f)))
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = n
		if e.Logger != nil {
			e.Logger.Info("table exported", "table", tbl.Name, "rows", n)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

// createTable uses the snapshot's own columns so a table with a missing or
// extra column still exports.
func createTable(name string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{name}.Sanitize(), strings.Join(defs, ", "))
}

func copyRows(f *frame.Frame) [][]any {
	rows := make([][]any, len(f.Rows))
	for i, r := range f.Rows {
		vals := make([]any, len(r))
		for j, v := range r {
			if v.Valid {
				vals[j] = v.String
			}
		}
		rows[i] = vals
	}
	return rows
}
