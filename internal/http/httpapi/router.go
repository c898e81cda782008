package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cloudvault/internal/http/handlers"
	"cloudvault/internal/i18n"
	"cloudvault/internal/middleware"
)

// Options carries the router-level knobs that come from configuration.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(i18n.Normalize(opts.DefaultLocale), opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", app.Register)
		r.Post("/auth/login", app.Login)
		r.Post("/otp/verify", app.VerifyOTP)
		r.Post("/otp/resend", app.ResendOTP)
		r.Post("/auth/refresh", app.Refresh)
		r.Post("/auth/logout", app.Logout)
		r.Post("/auth/forgot-password", app.ForgotPassword)
		r.Post("/auth/reset-password", app.ResetPassword)

		r.Post("/billing/webhook", app.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(app.Tokens))
			r.Get("/auth/me", app.Me)
			r.Get("/users/profile", app.Profile)
			r.Patch("/users/profile", app.UpdateProfile)
			r.Post("/users/password", app.ChangePassword)
			r.Get("/subscription", app.Subscription)
			r.Post("/subscription/sync", app.SyncSubscription)
			r.Post("/billing/checkout-session", app.CreateCheckoutSession)
			r.Post("/billing/portal-session", app.CreatePortalSession)
		})
	})

	return r
}
