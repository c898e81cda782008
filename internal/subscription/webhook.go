package subscription

import (
	"context"
	"errors"

	"cloudvault/internal/billing"
	"cloudvault/internal/domain"
)

// ProcessEvent applies one verified webhook event to local state. Events the
// service cannot attribute to a user are logged and dropped without error so
// the provider does not retry them forever.
func (s *Service) ProcessEvent(ctx context.Context, event *billing.Event) error {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.onCheckoutCompleted(ctx, event)
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
		return s.onSubscriptionChanged(ctx, event)
	case billing.EventSubscriptionDeleted:
		return s.onSubscriptionDeleted(ctx, event)
	case billing.EventInvoicePaymentSuccess:
		return s.onInvoice(ctx, event, domain.StatusActive)
	case billing.EventInvoicePaymentFailed:
		return s.onInvoice(ctx, event, domain.StatusPastDue)
	default:
		s.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}
}

// onCheckoutCompleted fetches the fresh subscription the session created and
// stores it. The session metadata carries the user ID set at checkout time.
func (s *Service) onCheckoutCompleted(ctx context.Context, event *billing.Event) error {
	session, err := event.Session()
	if err != nil {
		return err
	}
	userID := session.Metadata["user_id"]
	if userID == "" || session.Subscription == "" {
		s.logger.Warn().Str("session", session.ID).Msg("checkout event without user metadata")
		return nil
	}
	remote, err := s.billing.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return err
	}
	return s.subs.Upsert(ctx, s.fromProvider(userID, session.Customer, remote))
}

func (s *Service) onSubscriptionChanged(ctx context.Context, event *billing.Event) error {
	remote, err := event.Subscription()
	if err != nil {
		return err
	}
	userID := remote.Metadata["user_id"]
	if userID == "" {
		// Fall back to the customer linkage for subscriptions created
		// outside our checkout flow.
		user, err := s.users.GetByBillingCustomerID(ctx, remote.Customer)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn().Str("customer", remote.Customer).Msg("subscription event for unknown customer")
				return nil
			}
			return err
		}
		userID = user.ID
	}
	return s.subs.Upsert(ctx, s.fromProvider(userID, remote.Customer, remote))
}

// onSubscriptionDeleted drops the user back to the free tier.
func (s *Service) onSubscriptionDeleted(ctx context.Context, event *billing.Event) error {
	remote, err := event.Subscription()
	if err != nil {
		return err
	}
	userID := remote.Metadata["user_id"]
	if userID == "" {
		user, err := s.users.GetByBillingCustomerID(ctx, remote.Customer)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn().Str("customer", remote.Customer).Msg("deletion event for unknown customer")
				return nil
			}
			return err
		}
		userID = user.ID
	}
	sub := domain.DefaultSubscription(userID)
	sub.CustomerID = remote.Customer
	sub.Status = domain.StatusCanceled
	return s.subs.Upsert(ctx, sub)
}

func (s *Service) onInvoice(ctx context.Context, event *billing.Event, status domain.SubscriptionStatus) error {
	invoice, err := event.Invoice()
	if err != nil {
		return err
	}
	if invoice.Customer == "" {
		s.logger.Warn().Str("invoice", invoice.ID).Msg("invoice event without customer")
		return nil
	}
	return s.subs.SetStatusByCustomerID(ctx, invoice.Customer, status)
}
