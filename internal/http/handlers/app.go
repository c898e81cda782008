// Package handlers holds the HTTP surface. Handlers decode and validate the
// request, call into the services, and translate domain errors into localized
// JSON responses.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"cloudvault/internal/auth"
	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/middleware"
	"cloudvault/internal/subscription"
	"cloudvault/internal/token"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Auth          *auth.Service
	Subs          *subscription.Service
	Users         domain.UserRepository
	Tokens        *token.Manager
	DB            Pinger
	Logger        zerolog.Logger
	WebhookSecret string
	SecureCookies bool
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes a plain english error body, for validation failures.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// errorKey writes a localized error body using the request locale.
func (a *App) errorKey(w http.ResponseWriter, r *http.Request, code int, key i18n.MessageKey) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, code, map[string]string{"error": i18n.T(locale, key)})
}

// message writes a localized non-error body.
func (a *App) message(w http.ResponseWriter, r *http.Request, code int, key i18n.MessageKey) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, code, map[string]string{"message": i18n.T(locale, key)})
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg(msg)
	a.errorKey(w, r, http.StatusInternalServerError, i18n.MsgServerError)
}

// setSessionCookies installs the token pair as HttpOnly cookies.
func (a *App) setSessionCookies(w http.ResponseWriter, pair *token.Pair) {
	http.SetCookie(w, a.sessionCookie(middleware.AccessCookieName, pair.AccessToken, int(a.Tokens.AccessTTL().Seconds())))
	http.SetCookie(w, a.sessionCookie(middleware.RefreshCookieName, pair.RefreshToken, int(a.Tokens.RefreshTTL().Seconds())))
}

// clearSessionCookies expires both cookies immediately.
func (a *App) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, a.sessionCookie(middleware.AccessCookieName, "", -1))
	http.SetCookie(w, a.sessionCookie(middleware.RefreshCookieName, "", -1))
}

func (a *App) sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// session returns the authenticated session or writes a 401.
func (a *App) session(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.errorKey(w, r, http.StatusUnauthorized, i18n.MsgNotAuthenticated)
	}
	return s, ok
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}
