// Package subscription keeps the local subscription rows in step with the
// billing provider: lazy free-tier defaults, on-demand sync, checkout and
// portal session creation, and webhook event processing.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cloudvault/internal/billing"
	"cloudvault/internal/domain"
)

// PriceTable maps provider price IDs to plan tiers.
type PriceTable struct {
	Standard string
	Pro      string
}

// PlanFor returns the tier a price ID purchases, or PlanFree when unknown.
func (p PriceTable) PlanFor(priceID string) domain.PlanType {
	switch priceID {
	case p.Standard:
		return domain.PlanStandard
	case p.Pro:
		return domain.PlanPro
	default:
		return domain.PlanFree
	}
}

// PriceFor is the inverse of PlanFor for purchasable tiers.
func (p PriceTable) PriceFor(plan domain.PlanType) (string, bool) {
	switch plan {
	case domain.PlanStandard:
		return p.Standard, p.Standard != ""
	case domain.PlanPro:
		return p.Pro, p.Pro != ""
	default:
		return "", false
	}
}

// Service owns all reads and writes of subscription state.
type Service struct {
	users   domain.UserRepository
	subs    domain.SubscriptionRepository
	billing *billing.Client
	prices  PriceTable
	logger  zerolog.Logger
	baseURL string
}

func NewService(users domain.UserRepository, subs domain.SubscriptionRepository, client *billing.Client, prices PriceTable, logger zerolog.Logger, appBaseURL string) *Service {
	return &Service{
		users:   users,
		subs:    subs,
		billing: client,
		prices:  prices,
		logger:  logger,
		baseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// Current returns the user's subscription, creating the free-tier row on
// first read.
func (s *Service) Current(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subs.GetByUserID(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.subs.EnsureDefault(ctx, userID)
}

// Sync pulls the user's newest provider subscription and replaces the local
// row with it. Users without a billing customer, or customers with no
// provider subscription, land on the free tier.
func (s *Service) Sync(ctx context.Context, userID string) (*domain.Subscription, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.BillingCustomerID == "" {
		return s.subs.EnsureDefault(ctx, userID)
	}
	remote, err := s.billing.ListSubscriptions(ctx, user.BillingCustomerID)
	if err != nil {
		return nil, fmt.Errorf("list provider subscriptions: %w", err)
	}
	if len(remote) == 0 {
		return s.subs.EnsureDefault(ctx, userID)
	}
	sub := s.fromProvider(userID, user.BillingCustomerID, &remote[0])
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return s.subs.GetByUserID(ctx, userID)
}

// fromProvider maps a provider subscription onto the local row shape.
func (s *Service) fromProvider(userID, customerID string, remote *billing.Subscription) *domain.Subscription {
	plan := s.prices.PlanFor(remote.PriceID())
	sub := &domain.Subscription{
		UserID:            userID,
		CustomerID:        customerID,
		SubscriptionID:    remote.ID,
		PriceID:           remote.PriceID(),
		PlanType:          plan,
		Status:            mapStatus(remote.Status),
		StorageLimit:      domain.Plans[plan].StorageLimit,
		CancelAtPeriodEnd: remote.CancelAtPeriodEnd,
	}
	if remote.CurrentPeriodEnd > 0 {
		end := time.Unix(remote.CurrentPeriodEnd, 0).UTC()
		sub.CurrentPeriodEnd = &end
	}
	return sub
}

func mapStatus(provider string) domain.SubscriptionStatus {
	switch provider {
	case "active":
		return domain.StatusActive
	case "trialing":
		return domain.StatusTrialing
	case "past_due", "unpaid":
		return domain.StatusPastDue
	case "canceled":
		return domain.StatusCanceled
	default:
		return domain.StatusInactive
	}
}
