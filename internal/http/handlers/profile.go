package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cloudvault/internal/auth"
	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/password"
)

type updateProfileRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Profile returns the authenticated user's profile.
func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	a.Me(w, r)
}

// UpdateProfile patches firstname and/or lastname. Absent fields stay
// untouched.
func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Firstname == nil && req.Lastname == nil {
		a.error(w, http.StatusBadRequest, "nothing to update")
		return
	}
	for _, field := range []*string{req.Firstname, req.Lastname} {
		if field != nil {
			trimmed := strings.TrimSpace(*field)
			if trimmed == "" {
				a.error(w, http.StatusBadRequest, "name fields cannot be empty")
				return
			}
			*field = trimmed
		}
	}
	user, err := a.Users.UpdateProfile(r.Context(), session.UserID, req.Firstname, req.Lastname)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
			return
		}
		a.serverError(w, r, err, "profile update failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// ChangePassword rotates the password for a logged-in user.
func (a *App) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !a.decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < password.MinLength {
		a.error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	err := a.Auth.ChangePassword(r.Context(), session.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
		case errors.Is(err, auth.ErrSamePassword):
			a.error(w, http.StatusBadRequest, "new password must differ from the current one")
		case errors.Is(err, domain.ErrNotFound):
			a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
		default:
			a.serverError(w, r, err, "password change failed")
		}
		return
	}
	a.message(w, r, http.StatusOK, i18n.MsgPasswordUpdated)
}
