package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventKind is the closed set of webhook event types this service handles.
type EventKind string

const (
	EventCheckoutCompleted     EventKind = "checkout.session.completed"
	EventSubscriptionCreated   EventKind = "customer.subscription.created"
	EventSubscriptionUpdated   EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted   EventKind = "customer.subscription.deleted"
	EventInvoicePaymentSuccess EventKind = "invoice.payment_succeeded"
	EventInvoicePaymentFailed  EventKind = "invoice.payment_failed"
)

// KnownEvent reports whether kind belongs to the handled set.
func KnownEvent(kind EventKind) bool {
	switch kind {
	case EventCheckoutCompleted, EventSubscriptionCreated, EventSubscriptionUpdated,
		EventSubscriptionDeleted, EventInvoicePaymentSuccess, EventInvoicePaymentFailed:
		return true
	}
	return false
}

// Event is the envelope the provider posts to the webhook endpoint.
type Event struct {
	ID   string    `json:"id"`
	Type EventKind `json:"type"`
	Data struct {
		Raw json.RawMessage `json:"object"`
	} `json:"data"`
}

// SessionPayload is the data object of a checkout.session.completed event.
type SessionPayload struct {
	ID           string            `json:"id"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

// InvoicePayload is the data object of the invoice events.
type InvoicePayload struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("billing: decode event: %w", err)
	}
	if event.Type == "" {
		return nil, errors.New("billing: event type missing")
	}
	return &event, nil
}

// Session decodes the event payload as a checkout session.
func (e *Event) Session() (*SessionPayload, error) {
	var session SessionPayload
	if err := json.Unmarshal(e.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("billing: decode session payload: %w", err)
	}
	return &session, nil
}

// Subscription decodes the event payload as a subscription.
func (e *Event) Subscription() (*Subscription, error) {
	var sub Subscription
	if err := json.Unmarshal(e.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("billing: decode subscription payload: %w", err)
	}
	return &sub, nil
}

// Invoice decodes the event payload as an invoice.
func (e *Event) Invoice() (*InvoicePayload, error) {
	var invoice InvoicePayload
	if err := json.Unmarshal(e.Data.Raw, &invoice); err != nil {
		return nil, fmt.Errorf("billing: decode invoice payload: %w", err)
	}
	return &invoice, nil
}

// DefaultTolerance bounds how stale a webhook signature timestamp may be.
const DefaultTolerance = 5 * time.Minute

// ErrBadSignature is returned for any malformed, mismatched, or stale signature header.
var ErrBadSignature = errors.New("billing: invalid webhook signature")

// VerifySignature checks the provider's signature header against the shared
// secret. The header format is "t=<unix>,v1=<hex hmac-sha256 of t.payload>".
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" || secret == "" {
		return ErrBadSignature
	}
	var timestamp int64
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrBadSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return ErrBadSignature
	}
	if delta := now.Sub(time.Unix(timestamp, 0)); delta > tolerance || delta < -tolerance {
		return ErrBadSignature
	}
	expected := ComputeSignature(payload, secret, timestamp)
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrBadSignature
}

// ComputeSignature derives the v1 signature bytes for a payload and timestamp.
func ComputeSignature(payload []byte, secret string, timestamp int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeader renders a valid signature header, used by tests and tooling.
func SignatureHeader(payload []byte, secret string, timestamp int64) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(ComputeSignature(payload, secret, timestamp)))
}
