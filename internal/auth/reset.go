package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/mail"
	"cloudvault/internal/password"
)

// RequestPasswordReset issues a reset token for a known account and mails the
// reset link. Unknown emails are a silent no-op; the HTTP layer answers the
// same way in both cases.
func (s *Service) RequestPasswordReset(ctx context.Context, email string, locale i18n.Locale) error {
	normalized := NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, normalized); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	resetToken, err := generateHexToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	record := &domain.OneTimeCode{
		Email:     normalized,
		Code:      resetToken,
		Kind:      domain.CodeKindPasswordReset,
		ExpiresAt: time.Now().Add(resetTTL),
	}
	if err := s.codes.Issue(ctx, record); err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.appBaseURL, url.QueryEscape(resetToken), url.QueryEscape(normalized))
	if err := s.mailer.SendPasswordReset(ctx, mail.ResetMessage{To: normalized, ResetURL: resetURL, Locale: locale}); err != nil {
		s.logger.Error().Err(err).Str("email", normalized).Msg("reset email send failed")
		return err
	}
	return nil
}

// ConfirmPasswordReset consumes the reset token and stores the new password.
// The token burns on first submission even when it turns out to be expired.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, resetToken, newPassword string) error {
	normalized := NormalizeEmail(email)
	record, err := s.codes.Consume(ctx, normalized, resetToken, domain.CodeKindPasswordReset)
	if err != nil {
		return err
	}
	if record.IsExpired(time.Now()) {
		return domain.ErrCodeExpired
	}
	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}
