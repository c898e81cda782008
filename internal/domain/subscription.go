package domain

import "time"

// PlanType identifies a subscription tier.
type PlanType string

const (
	PlanFree     PlanType = "FREE"
	PlanStandard PlanType = "STANDARD"
	PlanPro      PlanType = "PRO"
)

// SubscriptionStatus mirrors the payment provider's subscription lifecycle.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "ACTIVE"
	StatusInactive SubscriptionStatus = "INACTIVE"
	StatusPastDue  SubscriptionStatus = "PAST_DUE"
	StatusCanceled SubscriptionStatus = "CANCELED"
	StatusTrialing SubscriptionStatus = "TRIALING"
)

// Plan describes a tier of the storage offering.
type Plan struct {
	Type         PlanType
	Name         string
	StorageLimit int64
}

const gib = int64(1024 * 1024 * 1024)

// Plans is the closed catalog of tiers. Storage limits are advisory display
// values; nothing in this service enforces them.
var Plans = map[PlanType]Plan{
	PlanFree:     {Type: PlanFree, Name: "Free", StorageLimit: 5 * gib},
	PlanStandard: {Type: PlanStandard, Name: "Standard", StorageLimit: 500 * gib},
	PlanPro:      {Type: PlanPro, Name: "Pro", StorageLimit: 2 * 1024 * gib},
}

// ValidPaidPlan reports whether p names a purchasable tier.
func ValidPaidPlan(p PlanType) bool {
	return p == PlanStandard || p == PlanPro
}

// Subscription is the one-to-one billing state attached to a user. It is
// created lazily with the free tier or upserted by provider webhook events.
type Subscription struct {
	UserID            string
	CustomerID        string
	SubscriptionID    string
	PriceID           string
	PlanType          PlanType
	Status            SubscriptionStatus
	StorageLimit      int64
	StorageUsed       int64
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultSubscription returns the lazily-created free-tier row for a user.
func DefaultSubscription(userID string) *Subscription {
	return &Subscription{
		UserID:       userID,
		PlanType:     PlanFree,
		Status:       StatusActive,
		StorageLimit: Plans[PlanFree].StorageLimit,
	}
}
