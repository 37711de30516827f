package command

import (
	"context"
	"fmt"

	"github.com/tair/digital-market/internal/checkout/domain"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
	ordercommand "github.com/tair/digital-market/internal/order/usecase/command"
	"github.com/tair/digital-market/kafka"
	"github.com/tair/digital-market/pkg/logger"
)

// OrderEventPublisher publishes order lifecycle events
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error
}

// ConfirmPaymentCommand resumes order creation on the provider's
// success callback
type ConfirmPaymentCommand struct {
	CustomerID uint
}

// ConfirmPaymentHandler handles the payment success callback
type ConfirmPaymentHandler struct {
	pending    domain.PendingStore
	placeOrder *ordercommand.PlaceOrderHandler
	orders     orderdomain.OrderRepository
	events     OrderEventPublisher
}

// NewConfirmPaymentHandler creates a new confirm payment handler
func NewConfirmPaymentHandler(
	pending domain.PendingStore,
	placeOrder *ordercommand.PlaceOrderHandler,
	orders orderdomain.OrderRepository,
	events OrderEventPublisher,
) *ConfirmPaymentHandler {
	return &ConfirmPaymentHandler{pending: pending, placeOrder: placeOrder, orders: orders, events: events}
}

// Handle consumes the stashed checkout exactly once, re-validates its
// delivery payload and places the order. A duplicate callback finds the
// stash gone and returns ErrCheckoutExpired without touching the catalog.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*orderdomain.Order, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required")
	}

	pending, err := h.pending.Consume(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := pending.Delivery.Validate(); err != nil {
		return nil, fmt.Errorf("stashed delivery payload invalid: %w", err)
	}

	order, err := h.placeOrder.Handle(ordercommand.PlaceOrderCommand{
		CustomerID: cmd.CustomerID,
		Delivery:   pending.Delivery,
	})
	if err != nil {
		return nil, err
	}

	if err := h.orders.MarkCompleted(order.ID); err != nil {
		return nil, err
	}
	order.Completed = true

	if h.events != nil {
		event := kafka.OrderPlacedEvent{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			TotalPrice: order.Price,
			ItemCount:  len(order.Items),
			Currency:   "USD",
		}
		if err := h.events.PublishOrderPlaced(ctx, event); err != nil {
			// The order is already committed; the event is best effort
			logger.Warn(ctx).Err(err).Uint("order_id", order.ID).Msg("Failed to publish order placed event")
		}
	}

	return order, nil
}
