package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/middleware"
	"cloudvault/internal/password"
)

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		CreatedAt: u.CreatedAt,
	}
}

func validEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// Register creates an account. The email must be unused and the password at
// least eight characters.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		a.error(w, http.StatusBadRequest, "valid email required")
		return
	}
	if len(req.Password) < password.MinLength {
		a.error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.Firstname) == "" || strings.TrimSpace(req.Lastname) == "" {
		a.error(w, http.StatusBadRequest, "firstname and lastname required")
		return
	}
	user, err := a.Auth.Register(r.Context(), req.Firstname, req.Lastname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, http.StatusConflict, "email already registered")
			return
		}
		a.serverError(w, r, err, "register failed")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"user": toUserDTO(user)})
}

// Login verifies email+password and mails a one-time code. No session is
// created until the code is verified. Unknown emails and wrong passwords are
// indistinguishable in the response.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	user, err := a.Auth.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
			return
		}
		a.serverError(w, r, err, "login failed")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	country := middleware.CountryFromContext(r.Context())
	if err := a.Auth.IssueLoginCode(r.Context(), user.Email, locale, country); err != nil {
		a.serverError(w, r, err, "otp issue failed")
		return
	}
	locMsg := i18n.T(locale, i18n.MsgCodeSent)
	a.json(w, http.StatusOK, map[string]any{"otp_required": true, "message": locMsg})
}

// VerifyOTP exchanges a valid code for the session cookies.
func (a *App) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Code == "" {
		a.error(w, http.StatusBadRequest, "email and code required")
		return
	}
	user, pair, err := a.Auth.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeExpired):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgExpiredCode)
		case errors.Is(err, domain.ErrCodeInvalid):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgInvalidCode)
		default:
			a.serverError(w, r, err, "otp verify failed")
		}
		return
	}
	a.setSessionCookies(w, pair)
	a.json(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// ResendOTP re-issues the login code. The response does not reveal whether
// the email belongs to an account.
func (a *App) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		a.error(w, http.StatusBadRequest, "email required")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	country := middleware.CountryFromContext(r.Context())
	if err := a.Auth.ResendLoginCode(r.Context(), req.Email, locale, country); err != nil {
		a.serverError(w, r, err, "otp resend failed")
		return
	}
	a.message(w, r, http.StatusOK, i18n.MsgCodeSent)
}

// Refresh rotates the session using the refresh token cookie.
func (a *App) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
		return
	}
	user, pair, err := a.Auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			a.clearSessionCookies(w)
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
			return
		}
		a.serverError(w, r, err, "refresh failed")
		return
	}
	a.setSessionCookies(w, pair)
	a.json(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// Me returns the authenticated user and their subscription. The free tier
// row is created on first read.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	user, err := a.Users.GetByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.clearSessionCookies(w)
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
			return
		}
		a.serverError(w, r, err, "me lookup failed")
		return
	}
	sub, err := a.Subs.Current(r.Context(), user.ID)
	if err != nil {
		a.serverError(w, r, err, "subscription lookup failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user":         toUserDTO(user),
		"subscription": toSubscriptionDTO(sub),
	})
}

// Logout clears the session cookies. Tokens already issued expire on their
// own schedule.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearSessionCookies(w)
	a.message(w, r, http.StatusOK, i18n.MsgLoggedOut)
}
