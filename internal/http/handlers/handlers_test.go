package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cloudvault/internal/auth"
	"cloudvault/internal/billing"
	"cloudvault/internal/domain"
	"cloudvault/internal/http/handlers"
	"cloudvault/internal/http/httpapi"
	"cloudvault/internal/mail"
	"cloudvault/internal/password"
	"cloudvault/internal/subscription"
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
	return 0, nil
}

type fakeSubRepo struct {
	byUser     map[string]*domain.Subscription
	byCustomer map[string]string
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{byUser: map[string]*domain.Subscription{}, byCustomer: map[string]string{}}
}

func (r *fakeSubRepo) GetByUserID(_ context.Context, userID string) (*domain.Subscription, error) {
	if s, ok := r.byUser[userID]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSubRepo) EnsureDefault(_ context.Context, userID string) (*domain.Subscription, error) {
	if s, ok := r.byUser[userID]; ok {
		return s, nil
	}
	s := domain.DefaultSubscription(userID)
	r.byUser[userID] = s
	return s, nil
}

func (r *fakeSubRepo) Upsert(_ context.Context, s *domain.Subscription) error {
	r.byUser[s.UserID] = s
	if s.CustomerID != "" {
		r.byCustomer[s.CustomerID] = s.UserID
	}
	return nil
}

func (r *fakeSubRepo) SetStatusByCustomerID(_ context.Context, customerID string, status domain.SubscriptionStatus) error {
	if userID, ok := r.byCustomer[customerID]; ok {
		r.byUser[userID].Status = status
	}
	return nil
}

type captureMailer struct {
	otps   []mail.OTPMessage
	resets []mail.ResetMessage
}

func (m *captureMailer) SendOTP(_ context.Context, msg mail.OTPMessage) error {
	m.otps = append(m.otps, msg)
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, msg mail.ResetMessage) error {
	m.resets = append(m.resets, msg)
	return nil
}

const (
	testSecret        = "0123456789abcdef0123456789abcdef"
	testWebhookSecret = "whsec_test"
)

type env struct {
	router http.Handler
	users  *fakeUserRepo
	codes  *fakeCodeRepo
	subs   *fakeSubRepo
	mailer *captureMailer
	tokens *token.Manager
}

func newEnv(t *testing.T, providerAPI http.Handler) *env {
	t.Helper()
	if providerAPI == nil {
		providerAPI = http.NewServeMux()
	}
	srv := httptest.NewServer(providerAPI)
	t.Cleanup(srv.Close)
	client, err := billing.NewClient(billing.ClientOptions{APIKey: "sk_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("billing client: %v", err)
	}
	tokens, err := token.NewManager(token.Config{
		Secret:     []byte(testSecret),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	users := newFakeUserRepo()
	codes := &fakeCodeRepo{}
	subs := newFakeSubRepo()
	mailer := &captureMailer{}
	logger := zerolog.Nop()
	prices := subscription.PriceTable{Standard: "price_std", Pro: "price_pro"}

	app := &handlers.App{
		Auth:          auth.NewService(users, codes, tokens, mailer, logger, "https://app.example.com"),
		Subs:          subscription.NewService(users, subs, client, prices, logger, "https://app.example.com"),
		Users:         users,
		Tokens:        tokens,
		Logger:        logger,
		WebhookSecret: testWebhookSecret,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins: []string{"https://app.example.com"},
		DefaultLocale:  "en",
	})
	return &env{router: router, users: users, codes: codes, subs: subs, mailer: mailer, tokens: tokens}
}

func (e *env) seedUser(t *testing.T, email, plaintext string) *domain.User {
	t.Helper()
	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Firstname: "Ada", Lastname: "Lovelace"}
	u.CreatedAt = time.Now()
	e.users.add(u)
	return u
}

// do sends a JSON request through the router.
func (e *env) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login walks the full password+OTP flow and returns the session cookies.
func (e *env) login(t *testing.T, email, plaintext string) []*http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": plaintext})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rec.Code, rec.Body.String())
	}
	code := e.mailer.otps[len(e.mailer.otps)-1].Code
	rec = e.do(t, http.MethodPost, "/api/otp/verify", map[string]string{"email": email, "code": code})
	if rec.Code != http.StatusOK {
		t.Fatalf("otp verify: got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookies set")
	}
	return cookies
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
