package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/order/domain"
)

// GetOrderQuery retrieves one order with its line snapshots
type GetOrderQuery struct {
	OrderID    uint
	CustomerID uint
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	repo domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// Handle executes the get order query. Orders are only visible to the
// customer that placed them.
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.Order, error) {
	if q.OrderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}

	order, err := h.repo.FindByID(q.OrderID)
	if err != nil {
		return nil, err
	}
	if q.CustomerID != 0 && order.CustomerID != q.CustomerID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
