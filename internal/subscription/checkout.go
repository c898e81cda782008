package subscription

import (
	"context"
	"errors"
	"fmt"

	"cloudvault/internal/billing"
	"cloudvault/internal/domain"
)

// ErrUnknownPlan rejects checkout for tiers that cannot be purchased.
var ErrUnknownPlan = errors.New("unknown or non-purchasable plan")

// ensureCustomer returns the user's billing customer ID, creating the
// customer at the provider on first use.
func (s *Service) ensureCustomer(ctx context.Context, user *domain.User) (string, error) {
	if user.BillingCustomerID != "" {
		return user.BillingCustomerID, nil
	}
	name := fmt.Sprintf("%s %s", user.Firstname, user.Lastname)
	customer, err := s.billing.CreateCustomer(ctx, user.Email, name, user.ID)
	if err != nil {
		return "", fmt.Errorf("create provider customer: %w", err)
	}
	if err := s.users.SetBillingCustomerID(ctx, user.ID, customer.ID); err != nil {
		return "", err
	}
	user.BillingCustomerID = customer.ID
	return customer.ID, nil
}

// StartCheckout creates a provider checkout session for a paid plan and
// returns the redirect URL.
func (s *Service) StartCheckout(ctx context.Context, userID string, plan domain.PlanType) (string, error) {
	if !domain.ValidPaidPlan(plan) {
		return "", ErrUnknownPlan
	}
	priceID, ok := s.prices.PriceFor(plan)
	if !ok {
		return "", ErrUnknownPlan
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	session, err := s.billing.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: s.baseURL + "/dashboard?checkout=success",
		CancelURL:  s.baseURL + "/pricing?checkout=canceled",
		UserID:     user.ID,
		PlanType:   string(plan),
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// StartPortal creates a provider billing-portal session so the user can
// manage payment methods and cancellation.
func (s *Service) StartPortal(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.BillingCustomerID == "" {
		return "", domain.ErrNotFound
	}
	session, err := s.billing.CreatePortalSession(ctx, user.BillingCustomerID, s.baseURL+"/dashboard")
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return session.URL, nil
}
