package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cloudvault/internal/domain"
	"cloudvault/internal/infra"
	"cloudvault/internal/sqlinline"
)

// CodeRepositoryPG implements domain.CodeRepository backed by PostgreSQL.
type CodeRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCodeRepository creates a new CodeRepositoryPG.
func NewCodeRepository(sql infra.SQLExecutor) *CodeRepositoryPG {
	return &CodeRepositoryPG{sql: sql}
}

// Issue stores a fresh one-time code, replacing any unconsumed predecessors for
// the same email and kind in the same statement.
func (r *CodeRepositoryPG) Issue(ctx context.Context, code *domain.OneTimeCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QIssueCode,
		code.ID, code.Email, code.Code, string(code.Kind), code.Country, code.ExpiresAt)
	if err := row.Scan(&code.ID, &code.CreatedAt); err != nil {
		return fmt.Errorf("issue code: %w", err)
	}
	return nil
}

// Consume flips the newest unconsumed match to consumed and returns it. A miss
// maps to domain.ErrCodeInvalid; expiry is the caller's check, since an expired
// submission still burns the code.
func (r *CodeRepositoryPG) Consume(ctx context.Context, email, code string, kind domain.CodeKind) (*domain.OneTimeCode, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QConsumeCode, email, code, string(kind))
	var c domain.OneTimeCode
	var k string
	if err := row.Scan(&c.ID, &c.Email, &c.Code, &k, &c.Country, &c.ExpiresAt, &c.Consumed, &c.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrCodeInvalid
		}
		return nil, fmt.Errorf("consume code: %w", err)
	}
	c.Kind = domain.CodeKind(k)
	return &c, nil
}

// PurgeExpired deletes consumed and expired rows and reports how many went away.
func (r *CodeRepositoryPG) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QPurgeExpiredCodes)
	if err != nil {
		return 0, fmt.Errorf("purge codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.CodeRepository = (*CodeRepositoryPG)(nil)
