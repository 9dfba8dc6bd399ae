package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
)

// Policy decides what a cast does with a value it cannot parse.
type Policy int

const (
	// Raise stops at the first unparseable value with a *CastError.
	Raise Policy = iota
	// Coerce turns unparseable values into nulls and counts them.
	Coerce
)

func (p Policy) String() string {
	if p == Coerce {
		return "coerce"
	}
	return "raise"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "raise":
		return Raise, nil
	case "coerce":
		return Coerce, nil
	}
	return Raise, fmt.Errorf("frame: unknown cast policy %q", s)
}

// Kind names a cast target.
type Kind string

const (
	KindInt  Kind = "int"
	KindBool Kind = "bool"
	KindTime Kind = "time"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindInt, KindBool, KindTime:
		return k, nil
	}
	return "", fmt.Errorf("frame: unknown cast kind %q", s)
}

// CastError reports the first value a Raise cast could not parse.
type CastError struct {
	Table  string
	Column string
	Row    int
	Value  string
	Kind   Kind
	Err    error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("frame: cannot cast %s.%s row %d value %q to %s: %v",
		e.Table, e.Column, e.Row, e.Value, e.Kind, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// Column is a typed column. Valid[i] is false where the source was null or,
// under Coerce, unparseable.
type Column[T any] struct {
	Name    string
	Values  []T
	Valid   []bool
	Coerced int // values nulled by Coerce
}

// At returns the i-th value and whether it is non-null.
func (c *Column[T]) At(i int) (T, bool) { return c.Values[i], c.Valid[i] }

func (c *Column[T]) Len() int { return len(c.Values) }

// NullCount counts nulls, coerced ones included.
func (c *Column[T]) NullCount() int {
	n := 0
	for _, ok := range c.Valid {
		if !ok {
			n++
		}
	}
	return n
}

func cast[T any](f *Frame, name string, kind Kind, p Policy, parse func(string) (T, error)) (*Column[T], error) {
	values, err := f.Col(name)
	if err != nil {
		return nil, err
	}

	col := &Column[T]{
		Name:   name,
		Values: make([]T, len(values)),
		Valid:  make([]bool, len(values)),
	}
	for i, v := range values {
		if !v.Valid {
			continue
		}
		parsed, err := parse(v.String)
		if err != nil {
			if p == Raise {
				return nil, &CastError{Table: f.Table, Column: name, Row: i, Value: v.String, Kind: kind, Err: err}
			}
			col.Coerced++
			continue
		}
		col.Values[i] = parsed
		col.Valid[i] = true
	}
	return col, nil
}

func (f *Frame) ToInt(name string, p Policy) (*Column[int64], error) {
	return cast(f, name, KindInt, p, func(s string) (int64, error) {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	})
}

// ToBool accepts only the "1"/"0" flag literals.
func (f *Frame) ToBool(name string, p Policy) (*Column[bool], error) {
	return cast(f, name, KindBool, p, domain.ParseFlag)
}

// ToTime accepts RFC 3339 timestamps in UTC.
func (f *Frame) ToTime(name string, p Policy) (*Column[time.Time], error) {
	return cast(f, name, KindTime, p, domain.ParseTime)
}

// Summary describes a cast column for display.
type Summary struct {
	Column  string `json:"column"`
	Kind    Kind   `json:"kind"`
	Policy  string `json:"policy"`
	Rows    int    `json:"rows"`
	Nulls   int    `json:"nulls"`
	Coerced int    `json:"coerced"`
}

// Cast runs the cast for kind and summarises the result.
func (f *Frame) Cast(name string, kind Kind, p Policy) (Summary, error) {
	s := Summary{Column: name, Kind: kind, Policy: p.String(), Rows: f.Len()}
	switch kind {
	case KindInt:
		c, err := f.ToInt(name, p)
		if err != nil {
			return s, err
		}
		s.Nulls, s.Coerced = c.NullCount(), c.Coerced
	case KindBool:
		c, err := f.ToBool(name, p)
		if err != nil {
			return s, err
		}
		s.Nulls, s.Coerced = c.NullCount(), c.Coerced
	case KindTime:
		c, err := f.ToTime(name, p)
		if err != nil {
			return s, err
		}
		s.Nulls, s.Coerced = c.NullCount(), c.Coerced
	default:
		return s, fmt.Errorf("frame: unknown cast kind %q", kind)
	}
	return s, nil
}
