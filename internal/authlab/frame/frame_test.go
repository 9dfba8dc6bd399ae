package frame_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func sample() *frame.Frame {
	return &frame.Frame{
		Table:   "sessions",
		Columns: []string{"session_id", "is_active", "created_at", "hits"},
		Rows: [][]frame.Value{
			{frame.Str("a"), frame.Str("1"), frame.Str("2024-03-01T09:00:00Z"), frame.Str("3")},
			{frame.Str("b"), frame.Str("0"), frame.Null, frame.Str("x")},
			{frame.Str("c"), frame.Str("true"), frame.Str("2024-03-01 09:00"), frame.Null},
		},
	}
}

func TestColAndSelect(t *testing.T) {
	f := sample()
	require.Equal(t, 3, f.Len())

	col, err := f.Col("is_active")
	require.NoError(t, err)
	require.Equal(t, "true", col[2].String)

	_, err = f.Col("nope")
	require.ErrorIs(t, err, frame.ErrUnknownColumn)

	sel, err := f.Select("hits", "session_id")
	require.NoError(t, err)
	require.Equal(t, []string{"hits", "session_id"}, sel.Columns)
	require.Equal(t, "a", sel.Rows[0][1].String)

	active := f.Filter(func(r frame.Row) bool { return r.Get("is_active").String == "1" })
	require.Equal(t, 1, active.Len())
	require.False(t, f.Row(1).Get("missing").Valid)
}

func TestCastRaise(t *testing.T) {
	f := sample()

	_, err := f.ToBool("is_active", frame.Raise)
	var ce *frame.CastError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "sessions", ce.Table)
	require.Equal(t, "is_active", ce.Column)
	require.Equal(t, 2, ce.Row)
	require.Equal(t, "true", ce.Value)
	require.ErrorIs(t, err, domain.ErrInvalidFlag)

	_, err = f.ToInt("hits", frame.Raise)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1, ce.Row)
}

func TestCastCoerce(t *testing.T) {
	f := sample()

	b, err := f.ToBool("is_active", frame.Coerce)
	require.NoError(t, err)
	require.Equal(t, 1, b.Coerced)
	v, ok := b.At(0)
	require.True(t, ok)
	require.True(t, v)
	_, ok = b.At(2)
	require.False(t, ok)

	ts, err := f.ToTime("created_at", frame.Coerce)
	require.NoError(t, err)
	require.Equal(t, 1, ts.Coerced, "only the malformed value counts as coerced")
	require.Equal(t, 2, ts.NullCount(), "source null plus coerced value")
	at, ok := ts.At(0)
	require.True(t, ok)
	require.True(t, at.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	n, err := f.ToInt("hits", frame.Coerce)
	require.NoError(t, err)
	require.Equal(t, int64(3), n.Values[0])
	require.Equal(t, 2, n.NullCount())
}

func TestCastSummary(t *testing.T) {
	f := sample()

	s, err := f.Cast("created_at", frame.KindTime, frame.Coerce)
	require.NoError(t, err)
	require.Equal(t, frame.Summary{Column: "created_at", Kind: frame.KindTime, Policy: "coerce", Rows: 3, Nulls: 2, Coerced: 1}, s)

	_, err = f.Cast("created_at", frame.KindTime, frame.Raise)
	require.Error(t, err)
}

func TestParsePolicyAndKind(t *testing.T) {
	p, err := frame.ParsePolicy("COERCE")
	require.NoError(t, err)
	require.Equal(t, frame.Coerce, p)

	p, err = frame.ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, frame.Raise, p)

	_, err = frame.ParsePolicy("ignore")
	require.Error(t, err)

	k, err := frame.ParseKind("time")
	require.NoError(t, err)
	require.Equal(t, frame.KindTime, k)

	_, err = frame.ParseKind("float")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	f := &frame.Frame{
		Columns: []string{"id", "details"},
		Rows: [][]frame.Value{
			{frame.Str("1"), frame.Str(`{"a":"b,c"}`)},
			{frame.Str("2"), frame.Null},
		},
	}
	require.NoError(t, f.WriteCSV(&buf))
	require.Equal(t, "id,details\n1,\"{\"\"a\"\":\"\"b,c\"\"}\"\n2,\n", buf.String())
}

func TestReadFromStore(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	require.NoError(t, s.Users().Insert(ctx, domain.User{
		ID:           "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "00",
		Salt:         "11",
		Role:         domain.RoleUser,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	f, err := frame.Read(ctx, s.Tables(), "users")
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())

	last, err := f.ToTime("last_login", frame.Raise)
	require.NoError(t, err)
	require.Equal(t, 1, last.NullCount())

	_, err = frame.Read(ctx, s.Tables(), "tokens")
	require.ErrorIs(t, err, store.ErrUnknownTable)
}
