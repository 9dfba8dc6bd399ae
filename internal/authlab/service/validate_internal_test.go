package service

import (
	"testing"

	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/stretchr/testify/require"
)

func TestCheckPrimaryKey(t *testing.T) {
	v := &ValidatorService{}
	f := &frame.Frame{
		Table:   "users",
		Columns: schema.Users.Columns,
		Rows: [][]frame.Value{
			row(schema.Users, "a"),
			row(schema.Users, "b"),
			row(schema.Users, "a"),
			row(schema.Users, ""),
		},
	}

	res := v.checkPrimaryKey(schema.Users, f)
	require.False(t, res.Passed)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "#2", res.Violations[0].Row)
	require.Contains(t, res.Violations[0].Message, "#0")
	require.Equal(t, "primary key is empty", res.Violations[1].Message)
}

func TestCheckColumns(t *testing.T) {
	v := &ValidatorService{}
	f := &frame.Frame{
		Table:   "api_keys",
		Columns: []string{"key_id", "user_id", "key_hash", "scopes", "created_at", "expires_at", "is_revoked", "note"},
	}

	res := v.checkColumns(schema.APIKeys, f)
	require.False(t, res.Passed)
	require.Equal(t, 3, res.Total)
	require.Equal(t, "scope", res.Violations[0].Column)
	require.Equal(t, "documented column is missing", res.Violations[0].Message)
	require.Equal(t, "scopes", res.Violations[1].Column)
	require.Equal(t, "note", res.Violations[2].Column)
}

func TestCheckSamplesAreCapped(t *testing.T) {
	v := &ValidatorService{MaxSamples: 2}
	f := &frame.Frame{Table: "sessions", Columns: []string{"session_id", "is_active"}}
	for range 5 {
		f.Rows = append(f.Rows, []frame.Value{frame.Str("s"), frame.Str("maybe")})
	}

	res := v.checkFlags(schema.Sessions, f)
	require.Equal(t, 5, res.Total)
	require.Len(t, res.Violations, 2)
}

// row builds a users row with the given key and placeholder values.
func row(tbl schema.Table, key string) []frame.Value {
	out := make([]frame.Value, len(tbl.Columns))
	for i := range out {
		out[i] = frame.Str("x")
	}
	if key == "" {
		out[0] = frame.Null
	} else {
		out[0] = frame.Str(key)
	}
	return out
}
