package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/authlab/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket refilled at RequestsPerWindow per Window.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) limit() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// Route profiles of the dataset API. Each reads RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST at startup.
var (
	// HeavyLimit guards analyses that scan whole tables.
	HeavyLimit = ParseRateLimitFromEnv("HEAVY", RateLimitConfig{20, time.Minute, 20})
	// ReadLimit guards table pages and the cached validation report.
	ReadLimit = ParseRateLimitFromEnv("READ", RateLimitConfig{100, time.Minute, 100})
	// ProbeLimit guards health probes, JWKS and the Swagger UI.
	ProbeLimit = ParseRateLimitFromEnv("PROBE", RateLimitConfig{1000, time.Minute, 1000})
)

// ParseRateLimitFromEnv overrides def from the RATELIMIT_<name>_* variables.
// Unset, malformed and non-positive values keep the default.
func ParseRateLimitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	return parseRateLimit(name, def, os.Getenv)
}

func parseRateLimit(name string, def RateLimitConfig, getenv func(string) string) RateLimitConfig {
	positive := func(field string) (int, bool) {
		n, err := strconv.Atoi(getenv("RATELIMIT_" + name + "_" + field))
		return n, err == nil && n > 0
	}

	cfg := def
	if n, ok := positive("REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyExtractor names the bucket a request draws from. An empty key is not
// limited.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client address, trusting the first
// X-Forwarded-For hop and then X-Real-IP before RemoteAddr.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// PathValueKeyExtractor returns a wildcard of the matched route, e.g. the
// {name} of /v1/tables/{name}.
func PathValueKeyExtractor(name string) KeyExtractor {
	return func(r *http.Request) string { return r.PathValue(name) }
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if k := extract(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// idleTTL is how long a key may go unused before its bucket is dropped.
const idleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key and sweeps idle ones on access.
type buckets struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	byKey     map[string]*bucket
	lastSweep time.Time
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) > idleTTL {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(b.byKey, k)
			}
		}
		b.lastSweep = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.cfg.limit(), b.cfg.Burst)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now
	return bk.limiter
}

// RateLimitMiddleware answers 429 rate_limit_exceeded once a key has spent
// its bucket. Every response carries X-RateLimit-Limit and
// X-RateLimit-Remaining; a rejection adds Retry-After in whole seconds.
func RateLimitMiddleware(cfg RateLimitConfig, keyOf KeyExtractor) Middleware {
	b := &buckets{cfg: cfg, byKey: make(map[string]*bucket), lastSweep: time.Now()}
	limitHeader := strconv.Itoa(cfg.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyOf(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			limiter := b.get(key, now)
			allowed := limiter.AllowN(now, 1)

			h := w.Header()
			h.Set("X-RateLimit-Limit", limitHeader)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(int(limiter.TokensAt(now)), 0)))

			if !allowed {
				res := limiter.ReserveN(now, 1)
				wait := res.DelayFrom(now)
				res.CancelAt(now)

				retryAfter := max(int((wait+time.Second-1)/time.Second), 1)
				h.Set("Retry-After", strconv.Itoa(retryAfter))

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"retry_after", retryAfter,
				)
				WriteError(w, http.StatusTooManyRequests,
					"rate_limit_exceeded", "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits each client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByIPAndPathValue limits each client address per value of a route
// wildcard, so one hot table cannot starve reads of the others.
func RateLimitByIPAndPathValue(cfg RateLimitConfig, name string) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IPKeyExtractor, PathValueKeyExtractor(name)))
}
