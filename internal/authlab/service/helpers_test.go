package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite"
	"github.com/aussiebroadwan/authlab/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// cheapArgon2 keeps generation fast; the hashes are never verified here.
var cheapArgon2 = cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32}

func testConfig(seed uint64) service.GenerateConfig {
	return service.GenerateConfig{
		Seed:         seed,
		Users:        40,
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ATOScenarios: 3,
		Argon2:       cheapArgon2,
	}
}

func newStore(t *testing.T, opts ...sqlite.Option) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// generated returns a migrated store holding the dataset for cfg.
func generated(t *testing.T, cfg service.GenerateConfig, opts ...sqlite.Option) (*sqlite.Store, service.Summary) {
	t.Helper()

	s := newStore(t, opts...)
	gen := &service.GeneratorService{Store: s, Logger: discard}
	sum, err := gen.Generate(context.Background(), cfg)
	require.NoError(t, err)
	return s, sum
}
