package query

import (
	"errors"

	"github.com/tair/digital-market/internal/cart/domain"
)

// GetCartQuery represents the query for a customer's cart snapshot
type GetCartQuery struct {
	CustomerID uint
}

// GetCartHandler handles get cart query
type GetCartHandler struct {
	repo domain.CartRepository
}

// NewGetCartHandler creates a new get cart handler
func NewGetCartHandler(repo domain.CartRepository) *GetCartHandler {
	return &GetCartHandler{repo: repo}
}

// Handle executes the get cart query. Callers without a customer get an
// empty snapshot instead of an error.
func (h *GetCartHandler) Handle(q GetCartQuery) (*domain.CartInfo, error) {
	if q.CustomerID == 0 {
		return domain.EmptyCartInfo(), nil
	}

	cart, err := h.repo.FindByCustomerID(q.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.EmptyCartInfo(), nil
		}
		return nil, err
	}

	items, err := h.repo.Items(cart.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	info := &domain.CartInfo{Cart: cart, Items: items}
	for i := range items {
		info.TotalPrice += items[i].TotalPrice()
		info.TotalQuantity += items[i].Quantity
	}
	return info, nil
}
