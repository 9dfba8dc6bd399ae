package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventLoginSuccess           EventType = "login_success"
	EventLoginFailed            EventType = "login_failed"
	EventLogout                 EventType = "logout"
	EventMFAChallengePassed     EventType = "mfa_challenge_passed"
	EventMFAChallengeFailed     EventType = "mfa_challenge_failed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
	EventAPIKeyCreated          EventType = "api_key_created"
	EventAPIKeyRevoked          EventType = "api_key_revoked"
	EventRoleChanged            EventType = "role_changed"
)

var EventTypes = []EventType{
	EventLoginSuccess,
	EventLoginFailed,
	EventLogout,
	EventMFAChallengePassed,
	EventMFAChallengeFailed,
	EventPasswordResetRequested,
	EventPasswordResetCompleted,
	EventAPIKeyCreated,
	EventAPIKeyRevoked,
	EventRoleChanged,
}

func ParseEventType(s string) (EventType, error) {
	for _, e := range EventTypes {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEventType, s)
}

// AuditEvent is one row of the audit log. UserID is nil for events that
// could not be attributed, e.g. a failed login for an unknown username.
type AuditEvent struct {
	ID        string
	UserID    *string
	Type      EventType
	IPAddress string
	Details   string // JSON object
	CreatedAt time.Time
}
