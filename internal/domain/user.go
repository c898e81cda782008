package domain

import "time"

// User is an account identity record. The password is stored as a bcrypt hash
// and never leaves the persistence layer in API responses.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Firstname         string
	Lastname          string
	BillingCustomerID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
