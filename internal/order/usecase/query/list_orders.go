package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/order/domain"
)

// ListOrdersQuery lists a customer's orders, newest first
type ListOrdersQuery struct {
	CustomerID uint
	Limit      int
	Offset     int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	repo domain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(repo domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{repo: repo}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(q ListOrdersQuery) ([]domain.Order, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required")
	}

	orders, err := h.repo.FindByCustomerID(q.CustomerID, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
