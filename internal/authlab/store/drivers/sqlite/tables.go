package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

// migrationsTable is golang-migrate's bookkeeping table, hidden from readers.
const migrationsTable = "schema_migrations"

type tablesRepo struct {
	db DBTX
}

func (r *tablesRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != ?
		ORDER BY name`, migrationsTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *tablesRepo) Columns(ctx context.Context, table string) ([]string, error) {
	if table == migrationsTable {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	return cols, nil
}

func (r *tablesRepo) Read(ctx context.Context, table string, page store.Page) (store.Rows, error) {
	cols, err := r.Columns(ctx, table)
	if err != nil {
		return store.Rows{}, err
	}

	order, err := r.orderBy(ctx, table)
	if err != nil {
		return store.Rows{}, err
	}

	limit, offset := limitOffset(page)
	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM "+quoteIdent(table)+" ORDER BY "+order+" LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return store.Rows{}, err
	}
	defer rows.Close()

	out := store.Rows{Table: table, Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return store.Rows{}, err
		}
		out.Values = append(out.Values, values)
	}
	return out, rows.Err()
}

// orderBy is rowid, or the primary key for a WITHOUT ROWID table.
func (r *tablesRepo) orderBy(ctx context.Context, table string) (string, error) {
	var withoutRowid bool
	err := r.db.QueryRowContext(ctx,
		`SELECT wr FROM pragma_table_list WHERE schema = 'main' AND name = ?`, table).Scan(&withoutRowid)
	if err != nil {
		return "", fmt.Errorf("table list %s: %w", table, err)
	}
	if !withoutRowid {
		return "rowid", nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, table)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return "", err
		}
		keys = append(keys, quoteIdent(col))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(keys, ", "), nil
}

func (r *tablesRepo) Count(ctx context.Context, table string) (int, error) {
	if _, err := r.Columns(ctx, table); err != nil {
		return 0, err
	}
	return countRows(ctx, r.db, table)
}

func (r *tablesRepo) SetValue(ctx context.Context, table, keyColumn, key, column string, value *string) error {
	cols, err := r.Columns(ctx, table)
	if err != nil {
		return err
	}
	for _, c := range []string{keyColumn, column} {
		if !slices.Contains(cols, c) {
			return fmt.Errorf("%w: %s.%s", store.ErrUnknownColumn, table, c)
		}
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE "+quoteIdent(table)+" SET "+quoteIdent(column)+" = ? WHERE "+quoteIdent(keyColumn)+" = ?",
		mapOptionalString(value), key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
