package http

import (
	"net/http"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
	"github.com/aussiebroadwan/authlab/pkg/slogx"
)

type AnalysisHandler struct {
	AnalyzerService *service.AnalyzerService
	ATOOptions      service.ATOOptions
}

// HandleATO godoc
//
//	@Summary		Suspected account takeovers
//	@Description	Users with a burst of failed logins before a completed password reset,
//	@Description	followed by a session from an address the user had never used.
//	@Tags			Analysis
//	@Produce		json
//	@Success		200	{object}	authsdk.ATOResponse		"Findings"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/analysis/ato [get].
func (h *AnalysisHandler) HandleATO(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := h.ATOOptions
	if opts.Window <= 0 {
		opts.Window = service.DefaultATOWindow
	}
	if opts.MinFailures <= 0 {
		opts.MinFailures = service.DefaultATOMinFailures
	}

	findings, err := h.AnalyzerService.DetectATO(ctx, opts)
	if err != nil {
		slogx.FromContext(ctx).Error("ato analysis failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Analysis failed")
		return
	}

	response := authsdk.ATOResponse{
		Window:      opts.Window.String(),
		MinFailures: opts.MinFailures,
		Findings:    make([]authsdk.ATOFinding, len(findings)),
	}
	for i, f := range findings {
		response.Findings[i] = authsdk.ATOFinding{
			UserID:       f.UserID,
			IPAddress:    f.IP,
			FailedLogins: f.FailedLogins,
			ResetAt:      f.ResetAt,
			SessionAt:    f.SessionAt,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleMFA godoc
//
//	@Summary		MFA coverage by role
//	@Tags			Analysis
//	@Produce		json
//	@Success		200	{object}	authsdk.MFACoverageResponse	"Coverage"
//	@Failure		429	{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/analysis/mfa [get].
func (h *AnalysisHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coverage, err := h.AnalyzerService.MFACoverage(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("mfa analysis failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Analysis failed")
		return
	}

	response := authsdk.MFACoverageResponse{Roles: make([]authsdk.RoleCoverage, len(coverage))}
	for i, c := range coverage {
		response.Roles[i] = authsdk.RoleCoverage(c)
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleSessions godoc
//
//	@Summary		Session statistics
//	@Tags			Analysis
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionStatsResponse	"Statistics"
//	@Failure		429	{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/analysis/sessions [get].
func (h *AnalysisHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st, err := h.AnalyzerService.SessionStats(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("session analysis failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Analysis failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionStatsResponse(st))
}
