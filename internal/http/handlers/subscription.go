package handlers

import (
	"net/http"
	"time"

	"cloudvault/internal/domain"
)

type subscriptionDTO struct {
	PlanType          domain.PlanType           `json:"plan_type"`
	PlanName          string                    `json:"plan_name"`
	Status            domain.SubscriptionStatus `json:"status"`
	StorageLimit      int64                     `json:"storage_limit"`
	StorageUsed       int64                     `json:"storage_used"`
	CurrentPeriodEnd  *time.Time                `json:"current_period_end"`
	CancelAtPeriodEnd bool                      `json:"cancel_at_period_end"`
}

func toSubscriptionDTO(s *domain.Subscription) subscriptionDTO {
	return subscriptionDTO{
		PlanType:          s.PlanType,
		PlanName:          domain.Plans[s.PlanType].Name,
		Status:            s.Status,
		StorageLimit:      s.StorageLimit,
		StorageUsed:       s.StorageUsed,
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
}

// Subscription returns the caller's subscription, creating the free tier on
// first read.
func (a *App) Subscription(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	sub, err := a.Subs.Current(r.Context(), session.UserID)
	if err != nil {
		a.serverError(w, r, err, "subscription lookup failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"subscription": toSubscriptionDTO(sub)})
}

// SyncSubscription refreshes local state from the billing provider.
func (a *App) SyncSubscription(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	sub, err := a.Subs.Sync(r.Context(), session.UserID)
	if err != nil {
		a.serverError(w, r, err, "subscription sync failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"subscription": toSubscriptionDTO(sub)})
}
