//go:build e2e

package authlab_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestServedDataset(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	tables, err := client.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables.Tables, 5)

	users, err := client.ReadAll(ctx, "users", 25)
	require.NoError(t, err)
	require.Equal(t, datasetUsers, users.Total)
	require.Len(t, users.Rows, datasetUsers)

	_, err = client.ReadTable(ctx, "schema_migrations", 0, 0)
	assertStatus(t, err, http.StatusNotFound)

	report, err := client.GetValidation(ctx)
	require.NoError(t, err)
	require.True(t, report.OK)
	for _, c := range report.Checks {
		require.Empty(t, c.Note, "%s should not be skipped", c.Name)
	}

	ato, err := client.GetATOFindings(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ato.Findings), datasetATO)

	mfa, err := client.GetMFACoverage(ctx)
	require.NoError(t, err)
	for _, r := range mfa.Roles {
		if r.Role == "admin" {
			require.Equal(t, r.Users, r.Enabled, "admins always enrol")
		}
	}
}
