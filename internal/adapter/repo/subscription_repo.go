package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cloudvault/internal/domain"
	"cloudvault/internal/infra"
	"cloudvault/internal/sqlinline"
)

// SubscriptionRepositoryPG implements domain.SubscriptionRepository backed by PostgreSQL.
type SubscriptionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSubscriptionRepository creates a new SubscriptionRepositoryPG.
func NewSubscriptionRepository(sql infra.SQLExecutor) *SubscriptionRepositoryPG {
	return &SubscriptionRepositoryPG{sql: sql}
}

// GetByUserID fetches the subscription row for a user.
func (r *SubscriptionRepositoryPG) GetByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := scanSubscription(r.sql.QueryRow(ctx, sqlinline.QSelectSubscriptionByUser, userID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select subscription: %w", err)
	}
	return sub, nil
}

// EnsureDefault returns the user's subscription, creating the free-tier row when
// none exists yet.
func (r *SubscriptionRepositoryPG) EnsureDefault(ctx context.Context, userID string) (*domain.Subscription, error) {
	def := domain.DefaultSubscription(userID)
	row := r.sql.QueryRow(ctx, sqlinline.QEnsureDefaultSubscription,
		userID, string(def.PlanType), string(def.Status), def.StorageLimit)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("ensure subscription: %w", err)
	}
	return sub, nil
}

// Upsert writes provider-sourced billing state for a user.
func (r *SubscriptionRepositoryPG) Upsert(ctx context.Context, sub *domain.Subscription) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertSubscription,
		sub.UserID, sub.CustomerID, sub.SubscriptionID, sub.PriceID,
		string(sub.PlanType), string(sub.Status), sub.StorageLimit,
		sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// SetStatusByCustomerID updates the status of whichever subscription belongs to
// the provider customer. Unknown customers are a no-op.
func (r *SubscriptionRepositoryPG) SetStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QSetSubscriptionStatusByCustomer, customerID, string(status)); err != nil {
		return fmt.Errorf("set subscription status: %w", err)
	}
	return nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	var plan, status string
	if err := row.Scan(&s.UserID, &s.CustomerID, &s.SubscriptionID, &s.PriceID,
		&plan, &status, &s.StorageLimit, &s.StorageUsed,
		&s.CurrentPeriodEnd, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.PlanType = domain.PlanType(plan)
	s.Status = domain.SubscriptionStatus(status)
	return &s, nil
}

var _ domain.SubscriptionRepository = (*SubscriptionRepositoryPG)(nil)
