package domain

import "time"

// Session is a login session. Token is the EdDSA-signed JWT handed to the
// client; its sub and sid claims mirror UserID and ID.
type Session struct {
	ID        string
	UserID    string
	Token     string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
	Active    bool
}
