package domain

import (
	"context"
	"errors"
	"time"

	order "github.com/tair/digital-market/internal/order/domain"
)

// Errors surfaced by the payment bridge
var (
	// ErrCheckoutExpired means no pending checkout exists for the customer:
	// either it was never initiated, its TTL ran out, or a callback already
	// consumed it. Duplicate provider callbacks end up here.
	ErrCheckoutExpired = errors.New("pending checkout missing or expired")
	ErrProviderFailure = errors.New("payment provider failure")
)

// PendingCheckout is the short-lived record stashed between payment
// initiation and the provider's success callback
type PendingCheckout struct {
	CustomerID uint               `json:"customer_id"`
	SessionRef string             `json:"session_ref"`
	Delivery   order.DeliveryForm `json:"delivery"`
	CreatedAt  time.Time          `json:"created_at"`
}

// PendingStore keeps pending checkouts keyed per customer with an explicit
// expiry. Consume removes the record atomically so a second callback for
// the same checkout finds nothing.
type PendingStore interface {
	Put(ctx context.Context, customerID uint, pending *PendingCheckout, ttl time.Duration) error
	Consume(ctx context.Context, customerID uint) (*PendingCheckout, error)
}

// SessionRequest describes a hosted payment session to create
type SessionRequest struct {
	Reference   string
	Amount      int // minor units
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// Session is the provider's answer: where to send the customer
type Session struct {
	Reference   string
	RedirectURL string
}

// PaymentProvider is the boundary to the external hosted checkout
type PaymentProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
