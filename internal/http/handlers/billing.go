package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"cloudvault/internal/billing"
	"cloudvault/internal/domain"
	"cloudvault/internal/subscription"
)

const maxWebhookBody = 1 << 20

type checkoutRequest struct {
	PlanType domain.PlanType `json:"plan_type"`
}

// CreateCheckoutSession starts a provider checkout for a paid plan and
// returns the redirect URL.
func (a *App) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if !a.decode(w, r, &req) {
		return
	}
	url, err := a.Subs.StartCheckout(r.Context(), session.UserID, req.PlanType)
	if err != nil {
		if errors.Is(err, subscription.ErrUnknownPlan) {
			a.error(w, http.StatusBadRequest, "unknown or non-purchasable plan")
			return
		}
		a.serverError(w, r, err, "checkout session failed")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}

// CreatePortalSession returns a billing portal URL for subscription
// management.
func (a *App) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	url, err := a.Subs.StartPortal(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusBadRequest, "no billing account")
			return
		}
		a.serverError(w, r, err, "portal session failed")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook receives provider events. The signature is verified against the
// raw body before anything is decoded; unknown event types are acknowledged
// so the provider stops retrying them.
func (a *App) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "unreadable body")
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	if err := billing.VerifySignature(payload, sig, a.WebhookSecret, billing.DefaultTolerance, time.Now()); err != nil {
		a.Logger.Warn().Err(err).Msg("webhook signature rejected")
		a.error(w, http.StatusBadRequest, "invalid signature")
		return
	}
	event, err := billing.ParseEvent(payload)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid event")
		return
	}
	if err := a.Subs.ProcessEvent(r.Context(), event); err != nil {
		a.Logger.Error().Err(err).Str("event", string(event.Type)).Msg("webhook processing failed")
		a.error(w, http.StatusInternalServerError, "event processing failed")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"received": true})
}
