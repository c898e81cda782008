// Package mail delivers the transactional emails of the authentication flows.
package mail

import (
	"context"

	"cloudvault/internal/i18n"
)

// OTPMessage carries what the verification-code email needs.
type OTPMessage struct {
	To      string
	Code    string
	Locale  i18n.Locale
	Country string // ISO country of the requesting IP, "" when unresolved
}

// ResetMessage carries what the password-reset email needs.
type ResetMessage struct {
	To       string
	ResetURL string
	Locale   i18n.Locale
}

// Mailer abstracts email delivery so handlers and tests stay transport-free.
type Mailer interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
	SendPasswordReset(ctx context.Context, msg ResetMessage) error
}
