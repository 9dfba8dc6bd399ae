package http

import (
	"net/http"

	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
)

type ValidationHandler struct {
	RevalidationService *service.RevalidationService
}

// ServeHTTP returns the cached validation report.
//
//	@Summary		Latest validation report
//	@Description	Returns the report of the most recent background validation run.
//	@Description	A report with ok=false is still a 200; 503 means no run has completed yet.
//	@Tags			Validation
//	@Produce		json
//	@Success		200	{object}	authsdk.ValidationReport	"Report"
//	@Failure		429	{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		503	{object}	authsdk.ErrorResponse		"No report yet"
//	@Router			/v1/validation [get].
func (h *ValidationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.RevalidationService == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, authsdk.ErrorCodeNotReady, "Validation is not running")
		return
	}

	rep, ok, err := h.RevalidationService.Latest()
	if !ok {
		desc := "No validation run has completed yet"
		if err != nil {
			desc = "Validation failed: " + err.Error()
		}
		httpx.WriteError(w, http.StatusServiceUnavailable, authsdk.ErrorCodeNotReady, desc)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponse(rep))
}

func toReportResponse(rep service.Report) authsdk.ValidationReport {
	out := authsdk.ValidationReport{
		CheckedAt: rep.CheckedAt,
		OK:        rep.OK,
		Checks:    make([]authsdk.CheckResult, len(rep.Checks)),
	}
	for i, c := range rep.Checks {
		res := authsdk.CheckResult{
			Name:   c.Name,
			Table:  c.Table,
			Passed: c.Passed,
			Total:  c.Total,
			Note:   c.Note,
		}
		for _, v := range c.Violations {
			res.Violations = append(res.Violations, authsdk.Violation{
				Table:   v.Table,
				Column:  v.Column,
				Row:     v.Row,
				Value:   v.Value,
				Message: v.Message,
			})
		}
		out.Checks[i] = res
	}
	return out
}
