package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByBillingCustomerID(ctx context.Context, customerID string) (*User, error)
	UpdateProfile(ctx context.Context, id string, firstname, lastname *string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetBillingCustomerID(ctx context.Context, id, customerID string) error
}

// CodeRepository handles one-time code persistence. Issue replaces all prior
// unconsumed codes for the (email, kind) pair in the same statement; Consume
// flips the newest matching record in a single conditional update so that two
// concurrent submissions cannot both succeed.
type CodeRepository interface {
	Issue(ctx context.Context, code *OneTimeCode) error
	Consume(ctx context.Context, email, code string, kind CodeKind) (*OneTimeCode, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// SubscriptionRepository handles billing state persistence.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
	EnsureDefault(ctx context.Context, userID string) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	SetStatusByCustomerID(ctx context.Context, customerID string, status SubscriptionStatus) error
}
