package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

// Defaults for DetectATO.
const (
	DefaultATOWindow      = 6 * time.Hour
	DefaultATOMinFailures = 5
)

// AnalyzerService runs the teaching analyses. The analyses read raw frames
// and cast with Coerce, so a noisy snapshot degrades the numbers instead of
// failing them. DetectATO reads clean per-user sessions through the typed
// repository.
type AnalyzerService struct {
	Store store.Store
}

type ATOOptions struct {
	// Window bounds both the failure burst before a completed reset and the
	// session after it.
	Window time.Duration
	// MinFailures is the smallest burst that counts.
	MinFailures int
}

// Finding is one suspected account takeover.
type Finding struct {
	UserID       string    `json:"user_id"`
	IP           string    `json:"ip_address"` // address of the post-reset session
	FailedLogins int       `json:"failed_logins"`
	ResetAt      time.Time `json:"reset_completed_at"`
	SessionAt    time.Time `json:"session_created_at"`
}

type auditRow struct {
	userID, ip string
	typ        string
	at         time.Time
	details    string
}

type sessionRow struct {
	id, userID, ip string
	createdAt      time.Time
	expiresAt      time.Time
	expiresOK      bool
	active         bool
}

func (a *AnalyzerService) loadAudit(ctx context.Context) ([]auditRow, error) {
	f, err := frame.Read(ctx, a.Store.Tables(), schema.TableAuditLog)
	if err != nil {
		return nil, err
	}
	at, err := f.ToTime("created_at", frame.Coerce)
	if err != nil {
		return nil, err
	}

	out := make([]auditRow, 0, f.Len())
	for i := range f.Len() {
		t, ok := at.At(i)
		if !ok {
			continue
		}
		row := f.Row(i)
		out = append(out, auditRow{
			userID:  row.Get("user_id").String,
			ip:      row.Get("ip_address").String,
			typ:     row.Get("event_type").String,
			at:      t,
			details: row.Get("details").String,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out, nil
}

func (a *AnalyzerService) loadSessions(ctx context.Context) ([]sessionRow, error) {
	f, err := frame.Read(ctx, a.Store.Tables(), schema.TableSessions)
	if err != nil {
		return nil, err
	}
	created, err := f.ToTime("created_at", frame.Coerce)
	if err != nil {
		return nil, err
	}
	expires, err := f.ToTime("expires_at", frame.Coerce)
	if err != nil {
		return nil, err
	}
	active, err := f.ToBool("is_active", frame.Coerce)
	if err != nil {
		return nil, err
	}

	out := make([]sessionRow, 0, f.Len())
	for i := range f.Len() {
		c, ok := created.At(i)
		if !ok {
			continue
		}
		row := f.Row(i)
		e, eok := expires.At(i)
		act, _ := active.At(i)
		out = append(out, sessionRow{
			id:        row.Get("session_id").String,
			userID:    row.Get("user_id").String,
			ip:        row.Get("ip_address").String,
			createdAt: c,
			expiresAt: e,
			expiresOK: eok,
			active:    act,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].createdAt.Before(out[j].createdAt) })
	return out, nil
}

// DetectATO flags users with a burst of at least MinFailures failed logins
// within Window before a completed password reset, followed within Window
// by a session from an address that user had never opened a session from.
func (a *AnalyzerService) DetectATO(ctx context.Context, opts ATOOptions) ([]Finding, error) {
	if opts.Window <= 0 {
		opts.Window = DefaultATOWindow
	}
	if opts.MinFailures <= 0 {
		opts.MinFailures = DefaultATOMinFailures
	}

	events, err := a.loadAudit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}
	resets, err := frame.Read(ctx, a.Store.Tables(), schema.TablePasswordResets)
	if err != nil {
		return nil, fmt.Errorf("load password resets: %w", err)
	}
	usedAt, err := resets.ToTime("used_at", frame.Coerce)
	if err != nil {
		return nil, err
	}

	failures := make(map[string][]time.Time)
	for _, e := range events {
		if e.typ == string(domain.EventLoginFailed) && e.userID != "" {
			failures[e.userID] = append(failures[e.userID], e.at)
		}
	}
	var byUser map[string][]sessionRow // built on the first noisy user

	var findings []Finding
	for i := range resets.Len() {
		resetAt, ok := usedAt.At(i)
		if !ok {
			continue // never completed
		}
		userID := resets.Row(i).Get("user_id").String

		burst := 0
		for _, t := range failures[userID] {
			if !t.After(resetAt) && resetAt.Sub(t) <= opts.Window {
				burst++
			}
		}
		if burst < opts.MinFailures {
			continue
		}

		userSessions, err := a.sessionsOf(ctx, userID, &byUser)
		if err != nil {
			return nil, fmt.Errorf("load sessions: %w", err)
		}
		for j, s := range userSessions {
			if !s.createdAt.After(resetAt) || s.createdAt.Sub(resetAt) > opts.Window {
				continue
			}
			if seenBefore(userSessions[:j], s.ip, s.createdAt) {
				continue
			}
			findings = append(findings, Finding{
				UserID:       userID,
				IP:           s.ip,
				FailedLogins: burst,
				ResetAt:      resetAt,
				SessionAt:    s.createdAt,
			})
			break
		}
	}

	slices.SortFunc(findings, func(x, y Finding) int { return x.ResetAt.Compare(y.ResetAt) })
	return findings, nil
}

// sessionsOf returns a user's sessions oldest first. Clean rows come through
// the typed repository; when any of the user's rows fails to decode, the
// coerced frame of the whole table is loaded once into byUser and used
// instead, dropping only the rows Coerce cannot read.
func (a *AnalyzerService) sessionsOf(ctx context.Context, userID string, byUser *map[string][]sessionRow) ([]sessionRow, error) {
	if *byUser == nil {
		typed, err := a.Store.Sessions().ListByUser(ctx, userID)
		if err == nil {
			out := make([]sessionRow, 0, len(typed))
			for _, s := range typed {
				out = append(out, sessionRow{
					id:        s.ID,
					userID:    s.UserID,
					ip:        s.IPAddress,
					createdAt: s.CreatedAt,
					expiresAt: s.ExpiresAt,
					expiresOK: true,
					active:    s.Active,
				})
			}
			sort.SliceStable(out, func(i, j int) bool { return out[i].createdAt.Before(out[j].createdAt) })
			return out, nil
		}
	}

	if *byUser == nil {
		sessions, err := a.loadSessions(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string][]sessionRow)
		for _, s := range sessions {
			m[s.userID] = append(m[s.userID], s)
		}
		*byUser = m
	}
	return (*byUser)[userID], nil
}

func seenBefore(earlier []sessionRow, ip string, at time.Time) bool {
	for _, s := range earlier {
		if s.ip == ip && s.createdAt.Before(at) {
			return true
		}
	}
	return false
}

// RoleCoverage is MFA enrolment for one role. Unknown counts users whose
// flag could not be read.
type RoleCoverage struct {
	Role    string  `json:"role"`
	Users   int     `json:"users"`
	Enabled int     `json:"mfa_enabled"`
	Unknown int     `json:"unknown"`
	Ratio   float64 `json:"ratio"`
}

// MFACoverage reports enrolment per role, documented roles first.
func (a *AnalyzerService) MFACoverage(ctx context.Context) ([]RoleCoverage, error) {
	f, err := frame.Read(ctx, a.Store.Tables(), schema.TableUsers)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	mfa, err := f.ToBool("mfa_enabled", frame.Coerce)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]*RoleCoverage)
	for i := range f.Len() {
		role := f.Row(i).Get("role").String
		c, ok := byRole[role]
		if !ok {
			c = &RoleCoverage{Role: role}
			byRole[role] = c
		}
		c.Users++
		switch on, ok := mfa.At(i); {
		case !ok:
			c.Unknown++
		case on:
			c.Enabled++
		}
	}

	var out []RoleCoverage
	for _, r := range domain.Roles {
		if c, ok := byRole[string(r)]; ok {
			out = append(out, *c)
			delete(byRole, string(r))
		}
	}
	rest := make([]string, 0, len(byRole))
	for r := range byRole {
		rest = append(rest, r)
	}
	slices.Sort(rest)
	for _, r := range rest {
		out = append(out, *byRole[r])
	}

	for i := range out {
		if known := out[i].Users - out[i].Unknown; known > 0 {
			out[i].Ratio = float64(out[i].Enabled) / float64(known)
		}
	}
	return out, nil
}

type SessionStats struct {
	Sessions        int     `json:"sessions"`
	Active          int     `json:"active"`
	Users           int     `json:"users_with_sessions"`
	MaxPerUser      int     `json:"max_per_user"`
	MeanPerUser     float64 `json:"mean_per_user"`
	MedianLifetimeS float64 `json:"median_lifetime_seconds"`
	LoggedOut       int     `json:"logged_out"`
}

// SessionStats summarises sessions. A session's lifetime ends at its logout
// event when the audit log has one, otherwise at expires_at.
func (a *AnalyzerService) SessionStats(ctx context.Context) (SessionStats, error) {
	sessions, err := a.loadSessions(ctx)
	if err != nil {
		return SessionStats{}, fmt.Errorf("load sessions: %w", err)
	}
	events, err := a.loadAudit(ctx)
	if err != nil {
		return SessionStats{}, fmt.Errorf("load audit log: %w", err)
	}

	logouts := make(map[string]time.Time)
	for _, e := range events {
		if e.typ != string(domain.EventLogout) {
			continue
		}
		var d struct {
			SessionID string `json:"session_id"`
		}
		if json.Unmarshal([]byte(e.details), &d) == nil && d.SessionID != "" {
			logouts[d.SessionID] = e.at
		}
	}

	st := SessionStats{Sessions: len(sessions)}
	perUser := make(map[string]int)
	var lifetimes []float64
	for _, s := range sessions {
		perUser[s.userID]++
		if s.active {
			st.Active++
		}
		end, ok := logouts[s.id]
		if ok {
			st.LoggedOut++
		} else if s.expiresOK {
			end = s.expiresAt
		} else {
			continue
		}
		lifetimes = append(lifetimes, end.Sub(s.createdAt).Seconds())
	}

	st.Users = len(perUser)
	for _, n := range perUser {
		st.MaxPerUser = max(st.MaxPerUser, n)
	}
	if st.Users > 0 {
		st.MeanPerUser = float64(st.Sessions) / float64(st.Users)
	}
	st.MedianLifetimeS = median(lifetimes)
	return st, nil
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
