package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/authlab/internal/authlab/app"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/service"
)

type env struct {
	dir string
	db  string
	key string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	return env{dir: dir, db: filepath.Join(dir, "auth.db"), key: filepath.Join(dir, "auth.pem")}
}

// run executes one command against the env's files and returns the exit
// code and stdout.
func (e env) run(t *testing.T, args ...string) (int, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	full := append([]string{}, args...)
	full = append(full, "--database", e.db, "--signing-key", e.key, "--log-level", "error")
	code := app.Main(context.Background(), full, &stdout, &stderr)
	if code != app.ExitOK {
		t.Logf("stderr: %s", stderr.String())
	}
	return code, stdout.String()
}

func (e env) generate(t *testing.T, extra ...string) service.Summary {
	t.Helper()

	args := []string{"generate",
		"--seed", "5",
		"--users", "25",
		"--start", "2024-01-01",
		"--end", "2024-02-15",
		"--ato", "2",
		"--argon2-memory", "64",
		"--argon2-iterations", "1",
	}
	code, out := e.run(t, append(args, extra...)...)
	require.Equal(t, app.ExitOK, code)

	var sum service.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	return sum
}

func TestMainUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, app.ExitUsage, app.Main(context.Background(), nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), "export-postgres")

	stderr.Reset()
	require.Equal(t, app.ExitUsage, app.Main(context.Background(), []string{"frobnicate"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), `unknown command "frobnicate"`)

	e := newEnv(t)
	code, _ := e.run(t, "show")
	require.Equal(t, app.ExitUsage, code)

	code, _ = e.run(t, "cast", "users", "mfa_enabled")
	require.Equal(t, app.ExitUsage, code)

	code, _ = e.run(t, "show", "users", "--no-such-flag")
	require.Equal(t, app.ExitUsage, code)
}

func TestGenerateThenValidate(t *testing.T) {
	e := newEnv(t)
	sum := e.generate(t)
	require.Equal(t, 25, sum.Users)
	require.Equal(t, 2, sum.ATOVictims)
	require.FileExists(t, e.key)

	code, out := e.run(t, "validate")
	require.Equal(t, app.ExitOK, code)

	var rep service.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.True(t, rep.OK)

	// a second run refuses to append to an existing dataset
	code, _ = e.run(t, "generate", "--users", "25", "--argon2-memory", "64", "--argon2-iterations", "1")
	require.Equal(t, app.ExitFailure, code)
}

func TestValidateFailsOnNoisyDataset(t *testing.T) {
	e := newEnv(t)
	sum := e.generate(t, "--noise", "0.3")
	require.Positive(t, sum.NoisyCells)

	code, out := e.run(t, "validate")
	require.Equal(t, app.ExitFailure, code)

	var rep service.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.False(t, rep.OK)
	require.NotEmpty(t, rep.Failed())
}

func TestValidateEmptyFileFails(t *testing.T) {
	e := newEnv(t)
	code, out := e.run(t, "validate")
	require.Equal(t, app.ExitFailure, code)
	require.Contains(t, out, service.CheckTablesPresent)
}

func TestShowAndCast(t *testing.T) {
	e := newEnv(t)
	e.generate(t)

	code, out := e.run(t, "show", "users", "--limit", "3")
	require.Equal(t, app.ExitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, schema.Users.Columns, strings.Fields(lines[0]))

	code, out = e.run(t, "cast", "users", "mfa_enabled", "bool")
	require.Equal(t, app.ExitOK, code)
	require.Contains(t, out, `"kind": "bool"`)

	// raise fails on the first non-integer
	code, _ = e.run(t, "cast", "users", "username", "int")
	require.Equal(t, app.ExitFailure, code)

	code, out = e.run(t, "cast", "users", "username", "int", "--coerce")
	require.Equal(t, app.ExitOK, code)
	require.Contains(t, out, `"coerced": 25`)

	code, _ = e.run(t, "show", "accounts")
	require.Equal(t, app.ExitFailure, code)
}

func TestAnalyze(t *testing.T) {
	e := newEnv(t)
	e.generate(t)

	code, out := e.run(t, "analyze")
	require.Equal(t, app.ExitOK, code)

	var a app.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.GreaterOrEqual(t, len(a.ATO), 2)
	require.NotEmpty(t, a.MFA)
	require.NotNil(t, a.Sessions)

	code, out = e.run(t, "analyze", "mfa")
	require.Equal(t, app.ExitOK, code)
	a = app.Analysis{}
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Empty(t, a.ATO)
	require.NotEmpty(t, a.MFA)

	code, _ = e.run(t, "analyze", "churn")
	require.Equal(t, app.ExitFailure, code)
}

func TestExportCSV(t *testing.T) {
	e := newEnv(t)
	e.generate(t)
	dir := filepath.Join(e.dir, "csv")

	code, _ := e.run(t, "export-csv", dir)
	require.Equal(t, app.ExitOK, code)
	for _, name := range schema.Names() {
		require.FileExists(t, filepath.Join(dir, name+".csv"))
	}
}

func TestMigrateListsTables(t *testing.T) {
	e := newEnv(t)
	code, out := e.run(t, "migrate")
	require.Equal(t, app.ExitOK, code)
	require.ElementsMatch(t, schema.Names(), strings.Fields(out))
}

func TestPublishRequiresBucket(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.db, []byte("x"), 0o600))

	code, _ := e.run(t, "publish")
	require.Equal(t, app.ExitFailure, code)
}
