package http

import (
	"net/http"

	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
)

// JWKSHandler exposes the dataset signing key so clients can verify
// sessions.token themselves.
//
//	@Summary		Get JWKS
//	@Description	Returns the public key that signed every sessions.token value.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
