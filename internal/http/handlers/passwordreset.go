package handlers

import (
	"errors"
	"net/http"

	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/middleware"
	"cloudvault/internal/password"
)

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword mails a reset link when the account exists. The response is
// identical either way.
func (a *App) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		a.error(w, http.StatusBadRequest, "valid email required")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	if err := a.Auth.RequestPasswordReset(r.Context(), req.Email, locale); err != nil {
		a.serverError(w, r, err, "password reset request failed")
		return
	}
	a.message(w, r, http.StatusOK, i18n.MsgResetRequested)
}

// ResetPassword consumes a reset token and stores the new password.
func (a *App) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Token == "" {
		a.error(w, http.StatusBadRequest, "email and token required")
		return
	}
	if len(req.NewPassword) < password.MinLength {
		a.error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	err := a.Auth.ConfirmPasswordReset(r.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeExpired):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgExpiredCode)
		case errors.Is(err, domain.ErrCodeInvalid):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgInvalidCode)
		default:
			a.serverError(w, r, err, "password reset failed")
		}
		return
	}
	a.message(w, r, http.StatusOK, i18n.MsgPasswordUpdated)
}
