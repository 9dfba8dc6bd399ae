package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/authlab/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func get(h http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", nil, "192.168.1.1"},
		{"first forwarded hop", "10.0.0.1:1", map[string]string{"X-Forwarded-For": " 203.0.113.1 , 10.0.0.1"}, "203.0.113.1"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
		{"forwarded beats real ip", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.1", "X-Real-IP": "203.0.113.2"}, "203.0.113.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestCompositeKeyExtractorSkipsEmpty(t *testing.T) {
	key := httpx.CompositeKeyExtractor(":",
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "b" },
	)
	require.Equal(t, "a:b", key(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	h := httpx.RateLimitByIP(cfg)(http.HandlerFunc(ok))

	for i := range 3 {
		rec := get(h, "/v1/analysis/ato", "192.0.2.1:1000")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, strconv.Itoa(2-i), rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := get(h, "/v1/analysis/ato", "192.0.2.1:1001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, retry, 1)
	require.LessOrEqual(t, retry, 20)

	var body httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "rate_limit_exceeded", body.Error)

	// another client has its own bucket
	require.Equal(t, http.StatusOK, get(h, "/v1/analysis/ato", "192.0.2.2:1000").Code)
}

func TestRateLimitEmptyKeyIsAllowed(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(http.HandlerFunc(ok))

	for range 5 {
		require.Equal(t, http.StatusOK, get(h, "/", "192.0.2.1:1").Code)
	}
}

func TestRateLimitByIPAndPathValue(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	mux := http.NewServeMux()
	mux.Handle("GET /v1/tables/{name}", httpx.Chain(http.HandlerFunc(ok),
		httpx.RateLimitByIPAndPathValue(cfg, "name"),
	))

	for range 2 {
		require.Equal(t, http.StatusOK, get(mux, "/v1/tables/users", "192.0.2.1:1").Code)
	}
	require.Equal(t, http.StatusTooManyRequests, get(mux, "/v1/tables/users", "192.0.2.1:1").Code)
	require.Equal(t, http.StatusOK, get(mux, "/v1/tables/sessions", "192.0.2.1:1").Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := httpx.Chain(http.HandlerFunc(ok), mark("outer"), mark("inner"))
	get(h, "/", "192.0.2.1:1")
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestRateLimitProfiles(t *testing.T) {
	require.Less(t, httpx.HeavyLimit.RequestsPerWindow, httpx.ReadLimit.RequestsPerWindow)
	require.Less(t, httpx.ReadLimit.RequestsPerWindow, httpx.ProbeLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 5}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST_UNSET", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_BURST", "7")
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 7},
			httpx.ParseRateLimitFromEnv("TEST", def))
	})

	t.Run("bad values keep defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "lots")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "0")
		t.Setenv("RATELIMIT_TEST_BURST", "-3")
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST", def))
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Second, Burst: 1000}
	h := httpx.RateLimitByIP(cfg)(http.HandlerFunc(ok))
	for i := 0; b.Loop(); i++ {
		get(h, "/", "198.51.100."+strconv.Itoa(i%250)+":1")
	}
}
