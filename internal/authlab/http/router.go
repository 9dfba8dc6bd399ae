package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
	"github.com/aussiebroadwan/authlab/pkg/slogx"

	_ "github.com/aussiebroadwan/authlab/api/authlab" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AnalyzerService     *service.AnalyzerService
	RevalidationService *service.RevalidationService
	ATOOptions          service.ATOOptions

	// Keys is the dataset signing key. Optional: /.well-known/jwks.json is
	// only served when it is set.
	Keys *jwtx.KeySet
}

func NewRouter(st store.Store, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTables()
	r.registerValidation()
	r.registerAnalysis()
	r.registerJWKS()
	r.registerSystem()

	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			authlab Dataset API
//	@version		0.1.0
//	@description	Read-only access to a synthetic authentication dataset: raw table pages,
//	@description	the latest data-quality report and the teaching analyses.
//	@description
//	@description	Values are returned exactly as stored. Flags are "1"/"0" strings, timestamps
//	@description	are RFC 3339 UTC strings and NULL is JSON null.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/authlab
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTables() {
	h := &TablesHandler{Tables: r.store.Tables()}

	r.Mux.Handle("GET /v1/tables",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)

	// Paging is limited per table so one client can walk several tables at once
	r.Mux.Handle("GET /v1/tables/{name}",
		httpx.Chain(http.HandlerFunc(h.HandleRead),
			httpx.RateLimitByIPAndPathValue(httpx.ReadLimit, "name"),
		),
	)
}

func (r *Router) registerValidation() {
	h := &ValidationHandler{RevalidationService: r.RevalidationService}

	// Served from cache, so it shares the read profile
	r.Mux.Handle("GET /v1/validation",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
}

func (r *Router) registerAnalysis() {
	h := &AnalysisHandler{AnalyzerService: r.AnalyzerService, ATOOptions: r.ATOOptions}

	// Analyses scan whole tables on every call
	r.Mux.Handle("GET /v1/analysis/ato",
		httpx.Chain(http.HandlerFunc(h.HandleATO),
			httpx.RateLimitByIP(httpx.HeavyLimit),
		),
	)
	r.Mux.Handle("GET /v1/analysis/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			httpx.RateLimitByIP(httpx.HeavyLimit),
		),
	)
	r.Mux.Handle("GET /v1/analysis/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleSessions),
			httpx.RateLimitByIP(httpx.HeavyLimit),
		),
	)
}

func (r *Router) registerJWKS() {
	if r.Keys == nil {
		return
	}
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.Keys),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &HealthHandler{
		Store:        r.store,
		Revalidation: r.RevalidationService,
		Version:      r.buildVersion,
		Started:      r.startTime,
	}

	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(h.HandleLive),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(h.HandleReady),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
}
