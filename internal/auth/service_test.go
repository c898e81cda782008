package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cloudvault/internal/domain"
	"cloudvault/internal/i18n"
	"cloudvault/internal/mail"
	"cloudvault/internal/password"
	"cloudvault/internal/token"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}}
}

func (r *fakeUserRepo) add(u *domain.User) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.add(u)
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByBillingCustomerID(_ context.Context, customerID string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.BillingCustomerID == customerID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, firstname, lastname *string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if firstname != nil {
		u.Firstname = *firstname
	}
	if lastname != nil {
		u.Lastname = *lastname
	}
	return u, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) SetBillingCustomerID(_ context.Context, id, customerID string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.BillingCustomerID = customerID
	return nil
}

type fakeCodeRepo struct {
	codes []*domain.OneTimeCode
}

func (r *fakeCodeRepo) Issue(_ context.Context, c *domain.OneTimeCode) error {
	kept := r.codes[:0]
	for _, existing := range r.codes {
		if existing.Email == c.Email && existing.Kind == c.Kind && !existing.Consumed {
			continue
		}
		kept = append(kept, existing)
	}
	r.codes = kept
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	r.codes = append(r.codes, c)
	return nil
}

func (r *fakeCodeRepo) Consume(_ context.Context, email, code string, kind domain.CodeKind) (*domain.OneTimeCode, error) {
	for i := len(r.codes) - 1; i >= 0; i-- {
		c := r.codes[i]
		if c.Email == email && c.Code == code && c.Kind == kind && !c.Consumed {
			c.Consumed = true
			return c, nil
		}
	}
	return nil, domain.ErrCodeInvalid
}

func (r *fakeCodeRepo) PurgeExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	kept := r.codes[:0]
	for _, c := range r.codes {
		if c.Consumed || c.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return n, nil
}

func (r *fakeCodeRepo) active(email string, kind domain.CodeKind) []*domain.OneTimeCode {
	var out []*domain.OneTimeCode
	for _, c := range r.codes {
		if c.Email == email && c.Kind == kind && !c.Consumed {
			out = append(out, c)
		}
	}
	return out
}

type captureMailer struct {
	otps   []mail.OTPMessage
	resets []mail.ResetMessage
	fail   bool
}

func (m *captureMailer) SendOTP(_ context.Context, msg mail.OTPMessage) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.otps = append(m.otps, msg)
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, msg mail.ResetMessage) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.resets = append(m.resets, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeCodeRepo, *captureMailer) {
	t.Helper()
	tokens, err := token.NewManager(token.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	users := newFakeUserRepo()
	codes := &fakeCodeRepo{}
	mailer := &captureMailer{}
	svc := NewService(users, codes, tokens, mailer, zerolog.Nop(), "https://app.example.com")
	return svc, users, codes, mailer
}

func seedUser(t *testing.T, users *fakeUserRepo, email, plaintext string) *domain.User {
	t.Helper()
	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Firstname: "Ada", Lastname: "Lovelace"}
	users.add(u)
	return u
}

func TestVerifyCredentials(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	seedUser(t, users, "ada@example.com", "correct horse")

	if _, err := svc.VerifyCredentials(context.Background(), "Ada@Example.com ", "correct horse"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if _, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.VerifyCredentials(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email should look like wrong password, got %v", err)
	}
}

func TestIssueLoginCodeReplacesActiveCode(t *testing.T) {
	svc, users, codes, mailer := newTestService(t)
	seedUser(t, users, "ada@example.com", "pw")

	for i := 0; i < 3; i++ {
		if err := svc.IssueLoginCode(context.Background(), "ada@example.com", i18n.LocaleEN, "FR"); err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
	}
	active := codes.active("ada@example.com", domain.CodeKindLogin)
	if len(active) != 1 {
		t.Fatalf("want exactly one active code, got %d", len(active))
	}
	if len(mailer.otps) != 3 {
		t.Fatalf("want 3 otp emails, got %d", len(mailer.otps))
	}
	last := mailer.otps[2]
	if last.Code != active[0].Code {
		t.Fatalf("mailed code %q does not match stored code %q", last.Code, active[0].Code)
	}
	if len(last.Code) != 6 || strings.TrimLeft(last.Code, "0123456789") != "" {
		t.Fatalf("code %q is not 6 digits", last.Code)
	}
	if last.Country != "FR" {
		t.Fatalf("country not threaded through: %q", last.Country)
	}
}

func TestVerifyLoginCodeSingleUse(t *testing.T) {
	svc, users, codes, mailer := newTestService(t)
	user := seedUser(t, users, "ada@example.com", "pw")

	if err := svc.IssueLoginCode(context.Background(), "ada@example.com", i18n.LocaleEN, ""); err != nil {
		t.Fatalf("issue: %v", err)
	}
	code := mailer.otps[0].Code

	got, pair, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("wrong user: %s", got.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
	if _, _, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", code); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Fatalf("second use should fail as invalid, got %v", err)
	}
	if len(codes.active("ada@example.com", domain.CodeKindLogin)) != 0 {
		t.Fatal("consumed code still active")
	}
}

func TestVerifyLoginCodeExpired(t *testing.T) {
	svc, users, codes, _ := newTestService(t)
	seedUser(t, users, "ada@example.com", "pw")

	stale := &domain.OneTimeCode{
		Email:     "ada@example.com",
		Code:      "123456",
		Kind:      domain.CodeKindLogin,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := codes.Issue(context.Background(), stale); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", "123456"); !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("want expired, got %v", err)
	}
	// The expired submission burned the code: a retry is now plain invalid.
	if _, _, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", "123456"); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Fatalf("want invalid after burn, got %v", err)
	}
}

func TestResendLoginCodeUnknownEmailIsSilent(t *testing.T) {
	svc, _, codes, mailer := newTestService(t)

	if err := svc.ResendLoginCode(context.Background(), "nobody@example.com", i18n.LocaleEN, ""); err != nil {
		t.Fatalf("resend for unknown email should not error: %v", err)
	}
	if len(mailer.otps) != 0 || len(codes.codes) != 0 {
		t.Fatal("unknown email must not produce a code or an email")
	}
}

func TestRefreshRotatesPair(t *testing.T) {
	svc, users, _, mailer := newTestService(t)
	user := seedUser(t, users, "ada@example.com", "pw")

	if err := svc.IssueLoginCode(context.Background(), "ada@example.com", i18n.LocaleEN, ""); err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, pair, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", mailer.otps[0].Code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	got, next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("refresh returned wrong user %s", got.ID)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatal("refresh should issue a full pair")
	}

	if _, _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("access token must not pass as refresh, got %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("garbage token: got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	user := seedUser(t, users, "ada@example.com", "old password")

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong current password: got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "old password", "old password"); !errors.Is(err, ErrSamePassword) {
		t.Fatalf("same password: got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "old password", "new password"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "new password"); err != nil {
		t.Fatalf("new password should verify: %v", err)
	}
	if _, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "old password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer verify, got %v", err)
	}
}
