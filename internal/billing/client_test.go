package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(ClientOptions{}); err == nil {
		t.Fatalf("NewClient accepted an empty api key")
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://pay.example.com/cs_1"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		CustomerID: "cus_1",
		PriceID:    "price_std",
		SuccessURL: "https://app.example.com/dashboard",
		CancelURL:  "https://app.example.com/pricing",
		UserID:     "user-1",
		PlanType:   "STANDARD",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}
	if session.ID != "cs_1" || session.URL == "" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if gotPath != "/checkout/sessions" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if got := gotForm["line_items[0][price]"]; len(got) != 1 || got[0] != "price_std" {
		t.Fatalf("price form field mismatch: %#v", gotForm)
	}
	if got := gotForm["subscription_data[metadata][plan_type]"]; len(got) != 1 || got[0] != "STANDARD" {
		t.Fatalf("subscription metadata mismatch: %#v", gotForm)
	}
}

func TestListSubscriptionsDecodesList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("customer"); got != "cus_1" {
			t.Fatalf("customer query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"sub_1","customer":"cus_1","status":"active",
			"current_period_end":1893456000,
			"metadata":{"plan_type":"PRO"},
			"items":{"data":[{"price":{"id":"price_pro"}}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	subs, err := client.ListSubscriptions(context.Background(), "cus_1")
	if err != nil {
		t.Fatalf("ListSubscriptions returned error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
	if subs[0].PriceID() != "price_pro" {
		t.Fatalf("PriceID = %q", subs[0].PriceID())
	}
	if subs[0].Metadata["plan_type"] != "PRO" {
		t.Fatalf("metadata mismatch: %#v", subs[0].Metadata)
	}
}

func TestDoSurfacesAPIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined.","type":"card_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = client.CreatePortalSession(context.Background(), "cus_1", "https://app.example.com/dashboard")
	if err == nil {
		t.Fatalf("CreatePortalSession expected error")
	}
	if got := err.Error(); !strings.Contains(got, "declined") || !strings.Contains(got, "402") {
		t.Fatalf("error does not carry the provider message: %q", got)
	}
}
