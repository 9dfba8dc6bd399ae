package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite"
	"github.com/aussiebroadwan/authlab/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...sqlite.Option) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s store.Repos, name string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.NewAt(t0).String(),
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "ab",
		Salt:         "cd",
		Role:         domain.RoleUser,
		CreatedAt:    t0,
	}
	require.NoError(t, s.Users().Insert(context.Background(), u))
	return u
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())

	tables, err := s.Tables().List(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, schema.Names(), tables)

	version, dirty, ok, err := s.SchemaVersion()
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)
}

func TestSchemaVersionOfUnmigratedFile(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, _, ok, err := s.SchemaVersion()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMigratedColumnsMatchCatalogue(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, tbl := range schema.All() {
		cols, err := s.Tables().Columns(ctx, tbl.Name)
		require.NoError(t, err)
		require.Equal(t, tbl.Columns, cols, tbl.Name)
	}
}

func TestUsersRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	login := t0.Add(time.Hour)
	u := domain.User{
		ID:           idx.NewAt(t0).String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "00ff",
		Salt:         "aa",
		Role:         domain.RoleAdmin,
		MFAEnabled:   true,
		CreatedAt:    t0,
		LastLogin:    &login,
	}
	require.NoError(t, s.Users().Insert(ctx, u))

	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.True(t, got.MFAEnabled)
	require.True(t, got.CreatedAt.Equal(t0))
	require.NotNil(t, got.LastLogin)
	require.True(t, got.LastLogin.Equal(login))

	// Raw storage uses the literal flag and timestamp forms
	rows, err := s.Tables().Read(ctx, "users", store.Page{})
	require.NoError(t, err)
	require.Len(t, rows.Values, 1)
	require.Equal(t, "1", rows.Values[0][schema.Users.ColumnIndex("mfa_enabled")].String)
	require.Equal(t, "2024-03-01T09:00:00Z", rows.Values[0][schema.Users.ColumnIndex("created_at")].String)

	_, err = s.Users().Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().Insert(ctx, u), store.ErrAlreadyExists)

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestNullableColumns(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, "bob")

	k := domain.APIKey{
		ID:        idx.NewAt(t0).String(),
		UserID:    u.ID,
		KeyHash:   "hash",
		Scopes:    []string{"read", "billing"},
		CreatedAt: t0,
	}
	require.NoError(t, s.APIKeys().Insert(ctx, k))

	got, err := s.APIKeys().Get(ctx, k.ID)
	require.NoError(t, err)
	require.Nil(t, got.ExpiresAt)
	require.Equal(t, []string{"read", "billing"}, got.Scopes)

	pr := domain.PasswordReset{
		ID:          idx.NewAt(t0).String(),
		UserID:      u.ID,
		ResetToken:  "fp",
		RequestedAt: t0,
		IPAddress:   "203.0.113.9",
	}
	require.NoError(t, s.PasswordResets().Insert(ctx, pr))
	gotReset, err := s.PasswordResets().Get(ctx, pr.ID)
	require.NoError(t, err)
	require.Nil(t, gotReset.UsedAt)

	ev := domain.AuditEvent{
		ID:        idx.NewAt(t0).String(),
		Type:      domain.EventLoginFailed,
		IPAddress: "203.0.113.9",
		Details:   `{"username":"nobody"}`,
		CreatedAt: t0,
	}
	require.NoError(t, s.AuditLog().Insert(ctx, ev))
	gotEv, err := s.AuditLog().Get(ctx, ev.ID)
	require.NoError(t, err)
	require.Nil(t, gotEv.UserID)
	require.Equal(t, domain.EventLoginFailed, gotEv.Type)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()

	orphan := domain.Session{
		ID:        idx.NewAt(t0).String(),
		UserID:    "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		Token:     "t",
		IPAddress: "198.51.100.1",
		UserAgent: "curl/8",
		CreatedAt: t0,
		ExpiresAt: t0.Add(time.Hour),
		Active:    true,
	}

	strict := newStore(t)
	require.Error(t, strict.Sessions().Insert(ctx, orphan))

	loose := newStore(t, sqlite.WithForeignKeys(false))
	require.NoError(t, loose.Sessions().Insert(ctx, orphan))
}

func TestSessionsListByUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	for i, uid := range []string{alice.ID, bob.ID, alice.ID} {
		at := t0.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Sessions().Insert(ctx, domain.Session{
			ID:        idx.NewAt(at).String(),
			UserID:    uid,
			Token:     "t",
			IPAddress: "198.51.100.1",
			UserAgent: "curl/8",
			CreatedAt: at,
			ExpiresAt: at.Add(time.Hour),
		}))
	}

	got, err := s.Sessions().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))

	page, err := s.Sessions().List(ctx, store.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	boom := errTest("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		seedUser(t, tx, "carol")
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		seedUser(t, tx, "dave")
		return nil
	}))
	n, err = s.Users().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestTablesReadAndSetValue(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, "erin")

	_, err := s.Tables().Read(ctx, "tokens", store.Page{})
	require.ErrorIs(t, err, store.ErrUnknownTable)

	_, err = s.Tables().Columns(ctx, "schema_migrations")
	require.ErrorIs(t, err, store.ErrUnknownTable)

	bad := "yes"
	require.NoError(t, s.Tables().SetValue(ctx, "users", "user_id", u.ID, "mfa_enabled", &bad))
	require.NoError(t, s.Tables().SetValue(ctx, "users", "user_id", u.ID, "last_login", nil))

	rows, err := s.Tables().Read(ctx, "users", store.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, "yes", rows.Values[0][schema.Users.ColumnIndex("mfa_enabled")].String)
	require.False(t, rows.Values[0][schema.Users.ColumnIndex("last_login")].Valid)

	// The typed repo refuses the corrupted flag
	_, err = s.Users().Get(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrInvalidFlag)

	require.ErrorIs(t,
		s.Tables().SetValue(ctx, "users", "user_id", "missing", "email", &bad),
		store.ErrNotFound)
	require.ErrorIs(t,
		s.Tables().SetValue(ctx, "users", "user_id", u.ID, "nope", &bad),
		store.ErrUnknownColumn)

	n, err := s.Tables().Count(ctx, "users")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestTablesReadWithoutRowid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `
		CREATE TABLE users (
			user_id TEXT PRIMARY KEY, username TEXT, email TEXT, password_hash TEXT,
			salt TEXT, role TEXT, mfa_enabled TEXT, created_at TEXT, last_login TEXT
		) WITHOUT ROWID;
		INSERT INTO users (user_id, username) VALUES ('b', 'bob'), ('a', 'alice'), ('c', 'carol');`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s, err := sqlite.NewStore("file:" + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	rows, err := s.Tables().Read(ctx, "users", store.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows.Values, 2)
	require.Equal(t, "b", rows.Values[0][0].String)
	require.Equal(t, "c", rows.Values[1][0].String)
}

func TestNullTimestampsCanBePlanted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, "frank")

	require.NoError(t, s.Tables().SetValue(ctx, "users", "user_id", u.ID, "created_at", nil))
	require.NoError(t, s.Tables().SetValue(ctx, "users", "user_id", u.ID, "mfa_enabled", nil))

	rows, err := s.Tables().Read(ctx, "users", store.Page{})
	require.NoError(t, err)
	require.False(t, rows.Values[0][schema.Users.ColumnIndex("created_at")].Valid)
	require.False(t, rows.Values[0][schema.Users.ColumnIndex("mfa_enabled")].Valid)
}

type errTest string

func (e errTest) Error() string { return string(e) }
