package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	cartquery "github.com/tair/digital-market/internal/cart/usecase/query"
	"github.com/tair/digital-market/internal/checkout/domain"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
)

// InitiatePaymentCommand starts a hosted checkout for the customer's cart
type InitiatePaymentCommand struct {
	CustomerID uint
	Delivery   orderdomain.DeliveryForm
	Currency   string
}

// InitiatePaymentResult carries the provider redirect target
type InitiatePaymentResult struct {
	RedirectURL string `json:"redirect_url"`
	SessionRef  string `json:"session_ref"`
}

// InitiatePaymentHandler handles payment initiation
type InitiatePaymentHandler struct {
	cart     *cartquery.GetCartHandler
	provider domain.PaymentProvider
	pending  domain.PendingStore
	ttl      time.Duration
	currency string
}

// NewInitiatePaymentHandler creates a new initiate payment handler. The
// currency is the configured settlement currency for provider sessions.
func NewInitiatePaymentHandler(
	cart *cartquery.GetCartHandler,
	provider domain.PaymentProvider,
	pending domain.PendingStore,
	ttl time.Duration,
	currency string,
) *InitiatePaymentHandler {
	return &InitiatePaymentHandler{cart: cart, provider: provider, pending: pending, ttl: ttl, currency: currency}
}

// Handle validates the delivery form, creates a hosted payment session for
// the cart total and stashes the pending payload under the customer's key.
// Nothing is persisted to the catalog or order tables here.
func (h *InitiatePaymentHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required")
	}
	if err := cmd.Delivery.Validate(); err != nil {
		return nil, err
	}

	info, err := h.cart.Handle(cartquery.GetCartQuery{CustomerID: cmd.CustomerID})
	if err != nil {
		return nil, err
	}
	if len(info.Items) == 0 {
		return nil, orderdomain.ErrEmptyCart
	}

	titles := make([]string, 0, len(info.Items))
	for i := range info.Items {
		titles = append(titles, info.Items[i].Product.Title)
	}

	currency := cmd.Currency
	if currency == "" {
		currency = h.currency
	}
	if currency == "" {
		currency = "USD"
	}

	session, err := h.provider.CreateSession(ctx, domain.SessionRequest{
		Reference:   uuid.New().String(),
		Amount:      info.TotalPrice * 100, // minor units
		Currency:    currency,
		Description: strings.Join(titles, ", "),
	})
	if err != nil {
		return nil, err
	}

	pending := &domain.PendingCheckout{
		CustomerID: cmd.CustomerID,
		SessionRef: session.Reference,
		Delivery:   cmd.Delivery,
		CreatedAt:  time.Now(),
	}
	if err := h.pending.Put(ctx, cmd.CustomerID, pending, h.ttl); err != nil {
		return nil, err
	}

	return &InitiatePaymentResult{
		RedirectURL: session.RedirectURL,
		SessionRef:  session.Reference,
	}, nil
}
