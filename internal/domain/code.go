package domain

import "time"

// CodeKind distinguishes the two one-time credential flows that share the
// one_time_codes table.
type CodeKind string

const (
	// CodeKindLogin is a 6-digit numeric code mailed after a password check.
	CodeKindLogin CodeKind = "login"
	// CodeKindPasswordReset is a 32-byte hex token delivered as a reset link.
	CodeKindPasswordReset CodeKind = "password_reset"
)

// OneTimeCode is a single-use verification credential bound to an email.
// At most one unconsumed code per (email, kind) is meaningful at any time;
// issuing a new one purges the older ones.
type OneTimeCode struct {
	ID        string
	Email     string
	Code      string
	Kind      CodeKind
	Country   string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// IsExpired returns true if the code has passed its expiry timestamp.
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
