package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func checksByName(rep service.Report) map[string][]service.CheckResult {
	out := map[string][]service.CheckResult{}
	for _, c := range rep.Checks {
		out[c.Name] = append(out[c.Name], c)
	}
	return out
}

func TestValidateCleanDataset(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(3)
	s, _ := generated(t, cfg)

	pemKey, _, err := service.DatasetSigningKey(cfg.Seed)
	require.NoError(t, err)
	keys, err := service.KeySetFromPEM(pemKey)
	require.NoError(t, err)

	v := &service.ValidatorService{Store: s, Logger: discard, Keys: keys, Issuer: "authlab"}
	rep, err := v.Validate(ctx)
	require.NoError(t, err)
	require.True(t, rep.OK, "%+v", rep.Failed())

	byName := checksByName(rep)
	for _, name := range []string{
		service.CheckTablesPresent, service.CheckColumnsExact, service.CheckForeignKeys,
		service.CheckFlagValues, service.CheckTimestamps, service.CheckPrimaryKeys,
		service.CheckSessionTokens, service.CheckTemporalOrder, service.CheckDomainValues,
	} {
		require.NotEmpty(t, byName[name], name)
	}
	require.Len(t, byName[service.CheckColumnsExact], len(schema.All()))
	require.Empty(t, byName[service.CheckSessionTokens][0].Note)
}

func TestValidateSkipsTokensWithoutKey(t *testing.T) {
	s, _ := generated(t, testConfig(3))

	rep, err := (&service.ValidatorService{Store: s}).Validate(context.Background())
	require.NoError(t, err)
	require.True(t, rep.OK)

	tokens := checksByName(rep)[service.CheckSessionTokens][0]
	require.True(t, tokens.Passed)
	require.Contains(t, tokens.Note, "skipped")
}

func TestValidateRejectsForeignSigningKey(t *testing.T) {
	s, _ := generated(t, testConfig(3))

	otherPEM, _, err := service.DatasetSigningKey(99)
	require.NoError(t, err)
	keys, err := service.KeySetFromPEM(otherPEM)
	require.NoError(t, err)

	rep, err := (&service.ValidatorService{Store: s, Keys: keys}).Validate(context.Background())
	require.NoError(t, err)
	require.False(t, rep.OK)

	tokens := checksByName(rep)[service.CheckSessionTokens][0]
	require.False(t, tokens.Passed)
	require.Positive(t, tokens.Total)
}

func TestValidateReportsPlantedViolations(t *testing.T) {
	ctx := context.Background()
	s, _ := generated(t, testConfig(4), sqlite.WithForeignKeys(false))

	sessions, err := s.Sessions().List(ctx, store.Page{Limit: 3})
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	set := func(table, key, column string, value *string) {
		tbl, _ := schema.Lookup(table)
		require.NoError(t, s.Tables().SetValue(ctx, table, tbl.PrimaryKey, key, column, value))
	}
	str := func(v string) *string { return &v }

	set("sessions", sessions[0].ID, "is_active", str("true"))
	set("sessions", sessions[1].ID, "expires_at", str(sessions[1].CreatedAt.Add(-time.Hour).Format(time.RFC3339)))
	set("sessions", sessions[2].ID, "user_id", str("01HZZZZZZZZZZZZZZZZZZZZZZZ"))
	set("sessions", sessions[2].ID, "created_at", nil)

	rep, err := (&service.ValidatorService{Store: s, MaxSamples: 1}).Validate(ctx)
	require.NoError(t, err)
	require.False(t, rep.OK)

	failed := map[string]service.CheckResult{}
	for _, c := range rep.Failed() {
		require.Equal(t, "sessions", c.Table, c.Name)
		failed[c.Name] = c
	}
	require.Len(t, failed, 4)

	require.Equal(t, 1, failed[service.CheckFlagValues].Total)
	require.Equal(t, sessions[0].ID, failed[service.CheckFlagValues].Violations[0].Row)
	require.Equal(t, "true", *failed[service.CheckFlagValues].Violations[0].Value)

	require.Equal(t, 1, failed[service.CheckTemporalOrder].Total)
	require.Equal(t, 1, failed[service.CheckForeignKeys].Total)
	require.Equal(t, 1, failed[service.CheckTimestamps].Total)
}

func TestValidateReportsUnknownVocabulary(t *testing.T) {
	ctx := context.Background()
	s, _ := generated(t, testConfig(4))

	users, err := s.Users().List(ctx, store.Page{Limit: 1})
	require.NoError(t, err)
	keys, err := s.APIKeys().List(ctx, store.Page{Limit: 1})
	require.NoError(t, err)
	events, err := s.AuditLog().List(ctx, store.Page{Limit: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, keys, 1)
	require.Len(t, events, 1)

	superuser, scope, login := "superuser", "read root", "LOGIN"
	require.NoError(t, s.Tables().SetValue(ctx, schema.TableUsers, "user_id", users[0].ID, "role", &superuser))
	require.NoError(t, s.Tables().SetValue(ctx, schema.TableAPIKeys, "key_id", keys[0].ID, "scope", &scope))
	require.NoError(t, s.Tables().SetValue(ctx, schema.TableAuditLog, "event_id", events[0].ID, "event_type", &login))

	rep, err := (&service.ValidatorService{Store: s}).Validate(ctx)
	require.NoError(t, err)
	require.False(t, rep.OK)

	failed := map[string]service.CheckResult{}
	for _, c := range rep.Failed() {
		require.Equal(t, service.CheckDomainValues, c.Name, c.Table)
		failed[c.Table] = c
	}
	require.Len(t, failed, 3)

	role := failed[schema.TableUsers]
	require.Equal(t, 1, role.Total)
	require.Equal(t, "role", role.Violations[0].Column)
	require.Equal(t, users[0].ID, role.Violations[0].Row)
	require.Equal(t, "superuser", *role.Violations[0].Value)

	require.Equal(t, "unknown scope", failed[schema.TableAPIKeys].Violations[0].Message)
	require.Equal(t, "unknown event type", failed[schema.TableAuditLog].Violations[0].Message)
}

func TestValidateEmptyFile(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	rep, err := (&service.ValidatorService{Store: s}).Validate(context.Background())
	require.NoError(t, err)
	require.False(t, rep.OK)
	require.Len(t, rep.Checks, 1)
	require.Equal(t, service.CheckTablesPresent, rep.Checks[0].Name)
	require.Equal(t, len(schema.All()), rep.Checks[0].Total)
	require.Len(t, rep.Checks[0].Violations, len(schema.All()))
}

func TestRevalidationCachesLatest(t *testing.T) {
	s, _ := generated(t, testConfig(3))

	svc := service.NewRevalidationService(&service.ValidatorService{Store: s}, discard, time.Hour)
	_, ok, err := svc.Latest()
	require.False(t, ok)
	require.NoError(t, err)

	svc.Revalidate(context.Background())
	rep, ok, err := svc.Latest()
	require.True(t, ok)
	require.NoError(t, err)
	require.True(t, rep.OK)

	svc.Start()
	svc.Stop()
}
