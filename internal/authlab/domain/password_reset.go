package domain

import "time"

type PasswordReset struct {
	ID          string
	UserID      string
	ResetToken  string // fingerprint of the emailed token, never the token itself
	RequestedAt time.Time
	UsedAt      *time.Time // nil while the reset is outstanding
	IPAddress   string
}
