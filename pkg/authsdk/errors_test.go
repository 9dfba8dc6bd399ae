package authsdk

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusNotFound}
	err := parseErrorResponse(resp, []byte(`{"error":"not_found","error_description":"no such table"}`))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeNotFound, apiErr.Code)
	require.Equal(t, "no such table", apiErr.Description)
	require.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
}

func TestParseErrorResponseFallback(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.False(t, IsNotFound(err))
}
