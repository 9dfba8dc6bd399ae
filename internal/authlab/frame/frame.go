// Package frame loads a table into memory as rows of nullable strings and
// casts its columns to typed values, the way an analyst would load the raw
// file into a dataframe before cleaning it.
package frame

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var ErrUnknownColumn = errors.New("frame: unknown column")

// Value is one cell; Valid is false for SQL NULL.
type Value = sql.NullString

// Null is the NULL cell.
var Null = Value{}

// Str returns a non-null cell holding s.
func Str(s string) Value { return Value{String: s, Valid: true} }

type Frame struct {
	Table   string
	Columns []string
	Rows    [][]Value
}

// FromRows wraps an untyped page read from the store.
func FromRows(r store.Rows) *Frame {
	return &Frame{Table: r.Table, Columns: r.Columns, Rows: r.Values}
}

// Read loads every row of table.
func Read(ctx context.Context, tables store.Tables, table string) (*Frame, error) {
	rows, err := tables.Read(ctx, table, store.Page{})
	if err != nil {
		return nil, err
	}
	return FromRows(rows), nil
}

func (f *Frame) Len() int { return len(f.Rows) }

func (f *Frame) index(name string) (int, error) {
	i := slices.Index(f.Columns, name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, f.Table, name)
	}
	return i, nil
}

// Col returns a copy of the named column.
func (f *Frame) Col(name string) ([]Value, error) {
	i, err := f.index(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Select returns a new frame with only the named columns, in the given order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	idx := make([]int, len(cols))
	for j, c := range cols {
		i, err := f.index(c)
		if err != nil {
			return nil, err
		}
		idx[j] = i
	}

	out := &Frame{Table: f.Table, Columns: slices.Clone(cols), Rows: make([][]Value, len(f.Rows))}
	for r, row := range f.Rows {
		sel := make([]Value, len(idx))
		for j, i := range idx {
			sel[j] = row[i]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// Filter returns the rows for which keep reports true. Rows are shared, not
// copied.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := &Frame{Table: f.Table, Columns: f.Columns}
	for _, row := range f.Rows {
		if keep(Row{frame: f, values: row}) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Row gives named access to one row of a frame.
type Row struct {
	frame  *Frame
	values []Value
}

// Get returns the cell in column name, or Null when the column is absent.
func (r Row) Get(name string) Value {
	i := slices.Index(r.frame.Columns, name)
	if i < 0 {
		return Null
	}
	return r.values[i]
}

// Row returns row i.
func (f *Frame) Row(i int) Row { return Row{frame: f, values: f.Rows[i]} }
