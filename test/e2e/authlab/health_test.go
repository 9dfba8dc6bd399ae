//go:build e2e

package authlab_test

import (
	"testing"

	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	health, err := authsdk.NewSDKClient(baseURL).GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	health, err := authsdk.NewSDKClient(baseURL).GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Validation)
}

// TestJWKSEndpoint checks that the key written by generate is the one served.
func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	jwks, err := authsdk.NewSDKClient(baseURL).GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "EdDSA", jwks.Keys[0].Alg)
}
