package authsdk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// pagedTable serves total single-column rows honouring limit and offset.
func pagedTable(t *testing.T, total int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/tables/{name}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "authlab-e2e", r.UserAgent())
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		resp := authsdk.TableRowsResponse{
			Table: r.PathValue("name"), Columns: []string{"n"},
			Limit: limit, Offset: offset, Total: total,
		}
		for i := offset; i < min(offset+limit, total); i++ {
			v := strconv.Itoa(i)
			resp.Rows = append(resp.Rows, []*string{&v})
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReadAllPages(t *testing.T) {
	srv := pagedTable(t, 23)
	client := authsdk.NewSDKClient(srv.URL+"/", authsdk.WithUserAgent("authlab-e2e"))

	got, err := client.ReadAll(t.Context(), "users", 10)
	require.NoError(t, err)
	require.Equal(t, 23, got.Total)
	require.Len(t, got.Rows, 23)
	require.Equal(t, "22", *got.Rows[22][0])
}

func TestReadTableReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","error_description":"unknown table"}`))
	}))
	defer srv.Close()

	client := authsdk.NewSDKClient(srv.URL, authsdk.WithHTTPClient(srv.Client()))
	_, err := client.ReadTable(t.Context(), "nope", 0, 0)
	require.True(t, authsdk.IsNotFound(err))
}
