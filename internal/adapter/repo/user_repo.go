package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudvault/internal/domain"
	"cloudvault/internal/infra"
	"cloudvault/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a new user. A duplicate email maps to domain.ErrDuplicateEmail.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser, id, user.Email, user.PasswordHash, user.Firstname, user.Lastname)
	created, err := scanUser(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, sqlinline.QSelectUserByID, id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, sqlinline.QSelectUserByEmail, email)
}

// GetByBillingCustomerID fetches a user by payment-provider customer id.
func (r *UserRepositoryPG) GetByBillingCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	return r.getOne(ctx, sqlinline.QSelectUserByBillingCustomer, customerID)
}

// UpdateProfile overwrites the name fields that are non-nil and returns the updated row.
func (r *UserRepositoryPG) UpdateProfile(ctx context.Context, id string, firstname, lastname *string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateUserProfile, id, firstname, lastname)
	user, err := scanUser(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepositoryPG) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPassword, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetBillingCustomerID records the payment-provider customer id for a user.
func (r *UserRepositoryPG) SetBillingCustomerID(ctx context.Context, id, customerID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetBillingCustomerID, id, customerID)
	if err != nil {
		return fmt.Errorf("set billing customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryPG) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.sql.QueryRow(ctx, query, arg))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname, &u.BillingCustomerID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
