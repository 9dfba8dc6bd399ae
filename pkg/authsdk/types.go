package authsdk

import (
	"time"

	"github.com/aussiebroadwan/authlab/pkg/jwtx"
)

// ErrorResponse is the body of every error the API returns.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Tables
// ============================================================================

// TableInfo describes one table in the served file.
type TableInfo struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	// Documented is false for tables outside the documented catalogue.
	Documented bool `json:"documented"`
}

type ListTablesResponse struct {
	Tables []TableInfo `json:"tables"`
}

// TableRowsResponse is one page of raw rows. A nil cell is NULL.
type TableRowsResponse struct {
	Table   string      `json:"table"`
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Total   int         `json:"total"`
}

// ============================================================================
// Validation
// ============================================================================

type Violation struct {
	Table   string  `json:"table"`
	Column  string  `json:"column,omitempty"`
	Row     string  `json:"row,omitempty"`
	Value   *string `json:"value,omitempty"`
	Message string  `json:"message"`
}

type CheckResult struct {
	Name       string      `json:"name"`
	Table      string      `json:"table,omitempty"`
	Passed     bool        `json:"passed"`
	Total      int         `json:"violations_total"`
	Violations []Violation `json:"violations,omitempty"`
	Note       string      `json:"note,omitempty"`
}

// ValidationReport is the latest cached validation run.
type ValidationReport struct {
	CheckedAt time.Time     `json:"checked_at"`
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
}

// ============================================================================
// Analysis
// ============================================================================

type ATOFinding struct {
	UserID       string    `json:"user_id"`
	IPAddress    string    `json:"ip_address"`
	FailedLogins int       `json:"failed_logins"`
	ResetAt      time.Time `json:"reset_completed_at"`
	SessionAt    time.Time `json:"session_created_at"`
}

type ATOResponse struct {
	Window      string       `json:"window"`
	MinFailures int          `json:"min_failures"`
	Findings    []ATOFinding `json:"findings"`
}

type RoleCoverage struct {
	Role    string  `json:"role"`
	Users   int     `json:"users"`
	Enabled int     `json:"mfa_enabled"`
	Unknown int     `json:"unknown"`
	Ratio   float64 `json:"ratio"`
}

type MFACoverageResponse struct {
	Roles []RoleCoverage `json:"roles"`
}

type SessionStatsResponse struct {
	Sessions        int     `json:"sessions"`
	Active          int     `json:"active"`
	Users           int     `json:"users_with_sessions"`
	MaxPerUser      int     `json:"max_per_user"`
	MeanPerUser     float64 `json:"mean_per_user"`
	MedianLifetimeS float64 `json:"median_lifetime_seconds"`
	LoggedOut       int     `json:"logged_out"`
}

// ============================================================================
// JWKS
// ============================================================================

// JWKSResponse is the public half of the dataset signing key.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz; only readyz sets Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database   string `json:"database"`
	Validation string `json:"validation"`
}
