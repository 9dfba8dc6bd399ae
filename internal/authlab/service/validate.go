package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
)

// Check names, in the order they run.
const (
	CheckTablesPresent = "tables_present"
	CheckColumnsExact  = "columns_exact"
	CheckForeignKeys   = "foreign_keys"
	CheckFlagValues    = "flag_values"
	CheckTimestamps    = "timestamps"
	CheckPrimaryKeys   = "primary_keys"
	CheckSessionTokens = "session_tokens"
	CheckTemporalOrder = "temporal_order"
	CheckDomainValues  = "domain_values"
)

const defaultMaxSamples = 10

// Violation is one offending cell, or one offending table for the structural
// checks.
type Violation struct {
	Table   string  `json:"table"`
	Column  string  `json:"column,omitempty"`
	Row     string  `json:"row,omitempty"` // primary key, or #index when the key is unusable
	Value   *string `json:"value,omitempty"`
	Message string  `json:"message"`
}

type CheckResult struct {
	Name       string      `json:"name"`
	Table      string      `json:"table,omitempty"`
	Passed     bool        `json:"passed"`
	Total      int         `json:"violations_total"`
	Violations []Violation `json:"violations,omitempty"` // at most MaxSamples
	Note       string      `json:"note,omitempty"`
}

type Report struct {
	CheckedAt time.Time     `json:"checked_at"`
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
}

// Failed returns the checks that did not pass.
func (r Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// ValidatorService asserts the documented data-quality facts of a dataset.
type ValidatorService struct {
	Store  store.Store
	Logger *slog.Logger

	// Keys verifies sessions.token. Nil skips the session_tokens check.
	Keys *jwtx.KeySet
	// Issuer, when set, must match every token's iss.
	Issuer string
	// MaxSamples caps the violations kept per check; the total is still counted.
	MaxSamples int

	Now func() time.Time
}

// Validate runs every check. It only returns an error when the store itself
// fails; data problems are reported in the Report.
func (v *ValidatorService) Validate(ctx context.Context) (Report, error) {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	rep := Report{CheckedAt: now().UTC()}

	present, err := v.Store.Tables().List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list tables: %w", err)
	}

	tablesCheck := v.newResult(CheckTablesPresent, "")
	frames := make(map[string]*frame.Frame)
	for _, tbl := range schema.All() {
		if !slices.Contains(present, tbl.Name) {
			tablesCheck.add(Violation{Table: tbl.Name, Message: "table is missing"})
			continue
		}
		f, err := frame.Read(ctx, v.Store.Tables(), tbl.Name)
		if err != nil {
			return Report{}, fmt.Errorf("read %s: %w", tbl.Name, err)
		}
		frames[tbl.Name] = f
	}
	rep.Checks = append(rep.Checks, tablesCheck.done())

	// Per table checks only run on tables that exist
	var tables []schema.Table
	for _, tbl := range schema.All() {
		if _, ok := frames[tbl.Name]; ok {
			tables = append(tables, tbl)
		}
	}

	for _, tbl := range tables {
		rep.Checks = append(rep.Checks, v.checkColumns(tbl, frames[tbl.Name]))
	}
	for _, tbl := range tables {
		if len(tbl.References) > 0 {
			rep.Checks = append(rep.Checks, v.checkForeignKeys(tbl, frames[tbl.Name], frames[schema.TableUsers]))
		}
	}
	for _, tbl := range tables {
		if len(tbl.Flags) > 0 {
			rep.Checks = append(rep.Checks, v.checkFlags(tbl, frames[tbl.Name]))
		}
	}
	for _, tbl := range tables {
		rep.Checks = append(rep.Checks, v.checkTimestamps(tbl, frames[tbl.Name]))
	}
	for _, tbl := range tables {
		rep.Checks = append(rep.Checks, v.checkPrimaryKey(tbl, frames[tbl.Name]))
	}
	if f, ok := frames[schema.TableSessions]; ok {
		rep.Checks = append(rep.Checks, v.checkSessionTokens(f))
	}
	for _, tbl := range tables {
		if pairs, ok := temporalPairs[tbl.Name]; ok {
			rep.Checks = append(rep.Checks, v.checkTemporalOrder(tbl, frames[tbl.Name], pairs))
		}
	}

	for _, tbl := range tables {
		if vocab, ok := vocabularies[tbl.Name]; ok {
			rep.Checks = append(rep.Checks, v.checkDomainValues(tbl, frames[tbl.Name], vocab))
		}
	}

	rep.OK = true
	for _, c := range rep.Checks {
		rep.OK = rep.OK && c.Passed
	}

	if v.Logger != nil {
		v.Logger.Info("validation finished", "ok", rep.OK, "checks", len(rep.Checks), "failed", len(rep.Failed()))
	}
	return rep, nil
}

// result accumulates violations for one check.
type result struct {
	CheckResult
	max int
}

func (v *ValidatorService) newResult(name, table string) *result {
	limit := v.MaxSamples
	if limit <= 0 {
		limit = defaultMaxSamples
	}
	return &result{CheckResult: CheckResult{Name: name, Table: table}, max: limit}
}

func (r *result) add(vi Violation) {
	r.Total++
	if len(r.Violations) < r.max {
		r.Violations = append(r.Violations, vi)
	}
}

func (r *result) done() CheckResult {
	r.Passed = r.Total == 0
	return r.CheckResult
}

// rowKey names row i by its primary key when that is usable.
func rowKey(tbl schema.Table, f *frame.Frame, i int) string {
	if k := f.Row(i).Get(tbl.PrimaryKey); k.Valid && k.String != "" {
		return k.String
	}
	return fmt.Sprintf("#%d", i)
}

func valuePtr(v frame.Value) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func (v *ValidatorService) checkColumns(tbl schema.Table, f *frame.Frame) CheckResult {
	res := v.newResult(CheckColumnsExact, tbl.Name)
	for _, c := range tbl.Columns {
		if !slices.Contains(f.Columns, c) {
			res.add(Violation{Table: tbl.Name, Column: c, Message: "documented column is missing"})
		}
	}
	for _, c := range f.Columns {
		if !tbl.HasColumn(c) {
			res.add(Violation{Table: tbl.Name, Column: c, Message: "column is not documented"})
		}
	}
	return res.done()
}

func (v *ValidatorService) checkForeignKeys(tbl schema.Table, f, users *frame.Frame) CheckResult {
	res := v.newResult(CheckForeignKeys, tbl.Name)
	if users == nil {
		res.add(Violation{Table: tbl.Name, Message: "users table is missing"})
		return res.done()
	}

	known := make(map[string]struct{}, users.Len())
	if ids, err := users.Col("user_id"); err == nil {
		for _, id := range ids {
			if id.Valid {
				known[id.String] = struct{}{}
			}
		}
	}

	for _, ref := range tbl.References {
		col, err := f.Col(ref.Column)
		if err != nil {
			continue // reported by columns_exact
		}
		for i, val := range col {
			if !val.Valid {
				if !tbl.IsNullable(ref.Column) {
					res.add(Violation{Table: tbl.Name, Column: ref.Column, Row: rowKey(tbl, f, i), Message: "reference is null"})
				}
				continue
			}
			if _, ok := known[val.String]; !ok {
				res.add(Violation{
					Table:   tbl.Name,
					Column:  ref.Column,
					Row:     rowKey(tbl, f, i),
					Value:   valuePtr(val),
					Message: fmt.Sprintf("no matching %s.%s", ref.RefTable, ref.RefColumn),
				})
			}
		}
	}
	return res.done()
}

func (v *ValidatorService) checkFlags(tbl schema.Table, f *frame.Frame) CheckResult {
	res := v.newResult(CheckFlagValues, tbl.Name)
	for _, c := range tbl.Flags {
		col, err := f.Col(c)
		if err != nil {
			continue
		}
		for i, val := range col {
			if !val.Valid {
				res.add(Violation{Table: tbl.Name, Column: c, Row: rowKey(tbl, f, i), Message: "flag is null"})
				continue
			}
			if _, err := domain.ParseFlag(val.String); err != nil {
				res.add(Violation{Table: tbl.Name, Column: c, Row: rowKey(tbl, f, i), Value: valuePtr(val), Message: `flag must be "1" or "0"`})
			}
		}
	}
	return res.done()
}

func (v *ValidatorService) checkTimestamps(tbl schema.Table, f *frame.Frame) CheckResult {
	res := v.newResult(CheckTimestamps, tbl.Name)
	for _, c := range tbl.Timestamps {
		col, err := f.Col(c)
		if err != nil {
			continue
		}
		for i, val := range col {
			if !val.Valid {
				if !tbl.IsNullable(c) {
					res.add(Violation{Table: tbl.Name, Column: c, Row: rowKey(tbl, f, i), Message: "timestamp is null"})
				}
				continue
			}
			if _, err := domain.ParseTime(val.String); err != nil {
				res.add(Violation{Table: tbl.Name, Column: c, Row: rowKey(tbl, f, i), Value: valuePtr(val), Message: "not an RFC 3339 UTC timestamp"})
			}
		}
	}
	return res.done()
}

func (v *ValidatorService) checkPrimaryKey(tbl schema.Table, f *frame.Frame) CheckResult {
	res := v.newResult(CheckPrimaryKeys, tbl.Name)
	col, err := f.Col(tbl.PrimaryKey)
	if err != nil {
		res.add(Violation{Table: tbl.Name, Column: tbl.PrimaryKey, Message: "primary key column is missing"})
		return res.done()
	}

	seen := make(map[string]int, len(col))
	for i, val := range col {
		if !val.Valid || val.String == "" {
			res.add(Violation{Table: tbl.Name, Column: tbl.PrimaryKey, Row: fmt.Sprintf("#%d", i), Message: "primary key is empty"})
			continue
		}
		if first, dup := seen[val.String]; dup {
			res.add(Violation{
				Table:   tbl.Name,
				Column:  tbl.PrimaryKey,
				Row:     fmt.Sprintf("#%d", i),
				Value:   valuePtr(val),
				Message: fmt.Sprintf("duplicates row #%d", first),
			})
			continue
		}
		seen[val.String] = i
	}
	return res.done()
}

func (v *ValidatorService) checkSessionTokens(f *frame.Frame) CheckResult {
	res := v.newResult(CheckSessionTokens, schema.TableSessions)
	if v.Keys == nil || v.Keys.Len() == 0 {
		res.Note = "skipped: no signing key configured"
		return res.done()
	}

	verifier := jwtx.NewVerifierEdDSA(v.Keys, jwtx.VerifyOptions{Issuer: v.Issuer})
	for i := range f.Len() {
		row := f.Row(i)
		key := rowKey(schema.Sessions, f, i)
		token := row.Get("token")
		if !token.Valid {
			res.add(Violation{Table: schema.TableSessions, Column: "token", Row: key, Message: "token is null"})
			continue
		}

		claims, err := verifier.Verify(token.String)
		if err != nil {
			res.add(Violation{Table: schema.TableSessions, Column: "token", Row: key, Message: err.Error()})
			continue
		}
		if uid := row.Get("user_id"); claims.Subject != uid.String {
			res.add(Violation{Table: schema.TableSessions, Column: "token", Row: key, Message: "sub does not match user_id"})
			continue
		}
		if sid := row.Get("session_id"); claims.SID != sid.String {
			res.add(Violation{Table: schema.TableSessions, Column: "token", Row: key, Message: "sid does not match session_id"})
		}
	}
	return res.done()
}

// temporalPair requires after >= before whenever both parse.
type temporalPair struct{ before, after string }

var temporalPairs = map[string][]temporalPair{
	schema.TableSessions:       {{before: "created_at", after: "expires_at"}},
	schema.TableAPIKeys:        {{before: "created_at", after: "expires_at"}},
	schema.TablePasswordResets: {{before: "requested_at", after: "used_at"}},
}

func (v *ValidatorService) checkTemporalOrder(tbl schema.Table, f *frame.Frame, pairs []temporalPair) CheckResult {
	res := v.newResult(CheckTemporalOrder, tbl.Name)
	for _, p := range pairs {
		// Unparseable values are reported by the timestamps check
		before, err := f.ToTime(p.before, frame.Coerce)
		if err != nil {
			continue
		}
		after, err := f.ToTime(p.after, frame.Coerce)
		if err != nil {
			continue
		}
		for i := range before.Len() {
			b, okB := before.At(i)
			a, okA := after.At(i)
			if okB && okA && a.Before(b) {
				res.add(Violation{
					Table:   tbl.Name,
					Column:  p.after,
					Row:     rowKey(tbl, f, i),
					Message: fmt.Sprintf("%s precedes %s", p.after, p.before),
				})
			}
		}
	}
	return res.done()
}

// vocabulary binds a column to the decoder of its documented values.
type vocabulary struct {
	column string
	parse  func(string) error
	what   string
}

var vocabularies = map[string][]vocabulary{
	schema.TableUsers: {{
		column: "role",
		parse:  func(s string) error { _, err := domain.ParseRole(s); return err },
		what:   "unknown role",
	}},
	schema.TableAPIKeys: {{
		column: "scope",
		parse:  func(s string) error { _, err := domain.ParseScopes(s); return err },
		what:   "unknown scope",
	}},
	schema.TableAuditLog: {{
		column: "event_type",
		parse:  func(s string) error { _, err := domain.ParseEventType(s); return err },
		what:   "unknown event type",
	}},
}

func (v *ValidatorService) checkDomainValues(tbl schema.Table, f *frame.Frame, vocab []vocabulary) CheckResult {
	res := v.newResult(CheckDomainValues, tbl.Name)
	for _, voc := range vocab {
		col, err := f.Col(voc.column)
		if err != nil {
			continue
		}
		for i, val := range col {
			if !val.Valid {
				res.add(Violation{Table: tbl.Name, Column: voc.column, Row: rowKey(tbl, f, i), Message: "value is null"})
				continue
			}
			if err := voc.parse(val.String); err != nil {
				res.add(Violation{Table: tbl.Name, Column: voc.column, Row: rowKey(tbl, f, i), Value: valuePtr(val), Message: voc.what})
			}
		}
	}
	return res.done()
}
