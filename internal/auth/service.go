// Package auth implements the account and session flows: credential
// verification, OTP issuance and verification, token refresh, and the
// password reset lifecycle.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/mail"
	"cloudvault/internal/password"
	"cloudvault/internal/token"
)

const (
	otpTTL   = 10 * time.Minute
	resetTTL = time.Hour
)

// ErrSamePassword rejects a password change to the current password.
var ErrSamePassword = errors.New("new password must differ from the current one")

// Service wires the authentication flows together. All dependencies are
// injected once at startup and treated as read-only afterwards.
type Service struct {
	users      domain.UserRepository
	codes      domain.CodeRepository
	tokens     *token.Manager
	mailer     mail.Mailer
	logger     zerolog.Logger
	appBaseURL string
}

// NewService constructs the auth service.
func NewService(users domain.UserRepository, codes domain.CodeRepository, tokens *token.Manager, mailer mail.Mailer, logger zerolog.Logger, appBaseURL string) *Service {
	return &Service{
		users:      users,
		codes:      codes,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// NormalizeEmail lower-cases and trims an email for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, firstname, lastname, email, plaintext string) (*domain.User, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, &domain.User{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Firstname:    strings.TrimSpace(firstname),
		Lastname:     strings.TrimSpace(lastname),
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials checks email+password. The bcrypt comparison runs whether
// or not the account exists, and both failure modes collapse into
// domain.ErrInvalidCredentials.
func (s *Service) VerifyCredentials(ctx context.Context, email, plaintext string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	if !password.Verify(hash, plaintext) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// IssueLoginCode stores a fresh 6-digit code for the email, replacing any
// prior unconsumed ones, and mails it. A send failure leaves the stored code
// behind; the next issuance purges it.
func (s *Service) IssueLoginCode(ctx context.Context, email string, locale i18n.Locale, country string) error {
	code, err := generateNumericCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	normalized := NormalizeEmail(email)
	record := &domain.OneTimeCode{
		Email:     normalized,
		Code:      code,
		Kind:      domain.CodeKindLogin,
		Country:   country,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.codes.Issue(ctx, record); err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, mail.OTPMessage{To: normalized, Code: code, Locale: locale, Country: country}); err != nil {
		s.logger.Error().Err(err).Str("email", normalized).Msg("otp email send failed")
		return err
	}
	return nil
}

// ResendLoginCode re-issues the code for a known account. Unknown emails are a
// silent no-op so the endpoint stays enumeration-resistant.
func (s *Service) ResendLoginCode(ctx context.Context, email string, locale i18n.Locale, country string) error {
	if _, err := s.users.GetByEmail(ctx, NormalizeEmail(email)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.IssueLoginCode(ctx, email, locale, country)
}

// VerifyLoginCode consumes the submitted code and, on success, returns the
// user with a fresh token pair. A consumed or unknown code is
// domain.ErrCodeInvalid; a correct-but-stale one is domain.ErrCodeExpired.
func (s *Service) VerifyLoginCode(ctx context.Context, email, code string) (*domain.User, *token.Pair, error) {
	normalized := NormalizeEmail(email)
	record, err := s.codes.Consume(ctx, normalized, code, domain.CodeKindLogin)
	if err != nil {
		return nil, nil, err
	}
	if record.IsExpired(time.Now()) {
		return nil, nil, domain.ErrCodeExpired
	}
	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrCodeInvalid
		}
		return nil, nil, err
	}
	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The old refresh
// token stays formally valid until its own expiry (rotation without
// revocation).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, *token.Pair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, domain.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotAuthenticated
		}
		return nil, nil, err
	}
	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ChangePassword verifies the current password and stores a new hash. The new
// password must differ from the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Verify(user.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	if password.Verify(user.PasswordHash, next) {
		return ErrSamePassword
	}
	hash, err := password.Hash(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
