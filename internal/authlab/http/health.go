package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
)

// HealthHandler answers the liveness and readiness probes.
type HealthHandler struct {
	Store        store.Store
	Revalidation *service.RevalidationService // nil when revalidation is off
	Version      string
	Started      time.Time
}

func (h *HealthHandler) response(status string) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
	}
}

// HandleLive godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Router			/livez [get].
func (h *HealthHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.response("ok"))
}

// HandleReady godoc
//
//	@Summary		Readiness probe
//	@Description	Ready once the database answers and a validation report is cached.
//	@Description	A failing report does not make the service unready.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Failure		503	{object}	authsdk.HealthResponse	"not ready"
//	@Router			/readyz [get].
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	checks := authsdk.HealthChecks{
		Database:   "ok",
		Validation: h.validationState(),
	}
	if err := h.Store.Ping(r.Context()); err != nil {
		checks.Database = "error: " + err.Error()
	}

	resp := h.response("ok")
	resp.Checks = &checks
	code := http.StatusOK
	if checks.Database != "ok" || (checks.Validation != "ok" && checks.Validation != "disabled") {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, resp)
}

func (h *HealthHandler) validationState() string {
	if h.Revalidation == nil {
		return "disabled"
	}
	_, ok, err := h.Revalidation.Latest()
	switch {
	case ok:
		return "ok"
	case err != nil:
		return "error: " + err.Error()
	default:
		return "pending"
	}
}
