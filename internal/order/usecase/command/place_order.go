package command

import (
	"fmt"

	cart "github.com/tair/digital-market/internal/cart/domain"
	"github.com/tair/digital-market/internal/order/domain"
)

// PlaceOrderCommand snapshots the customer's cart into an immutable order
type PlaceOrderCommand struct {
	CustomerID uint
	Delivery   domain.DeliveryForm
}

// PlaceOrderHandler handles order placement
type PlaceOrderHandler struct {
	orders domain.OrderRepository
	carts  cart.CartRepository
}

// NewPlaceOrderHandler creates a new place order handler
func NewPlaceOrderHandler(orders domain.OrderRepository, carts cart.CartRepository) *PlaceOrderHandler {
	return &PlaceOrderHandler{orders: orders, carts: carts}
}

// Handle executes the place order command. The cart must be non-empty.
// The delivery row, the order, its line snapshots, the stock decrements
// and the cart cleanup commit as one transaction.
func (h *PlaceOrderHandler) Handle(cmd PlaceOrderCommand) (*domain.Order, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required")
	}
	if err := cmd.Delivery.Validate(); err != nil {
		return nil, err
	}

	userCart, err := h.carts.FindByCustomerID(cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	items, err := h.carts.Items(userCart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	delivery := &domain.Delivery{
		CustomerID: cmd.CustomerID,
		FirstName:  cmd.Delivery.FirstName,
		LastName:   cmd.Delivery.LastName,
		Email:      cmd.Delivery.Email,
		Phone:      cmd.Delivery.Phone,
		Comment:    cmd.Delivery.Comment,
		Region:     cmd.Delivery.Region,
		City:       cmd.Delivery.City,
		Address:    cmd.Delivery.Address,
	}

	var total int
	orderItems := make([]domain.OrderItem, 0, len(items))
	for i := range items {
		product := &items[i].Product
		unitPrice := product.EffectivePrice()
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Title,
			Slug:       product.Slug,
			Price:      unitPrice,
			Photo:      product.Image,
			ColorName:  product.ColorName,
			Quantity:   items[i].Quantity,
			TotalPrice: items[i].Quantity * unitPrice,
		})
		total += items[i].Quantity * unitPrice
	}

	order := &domain.Order{
		CustomerID: cmd.CustomerID,
		CartID:     userCart.ID,
		Price:      total,
	}

	if err := h.orders.Place(delivery, order, orderItems); err != nil {
		return nil, err
	}

	order.Delivery = *delivery
	order.Items = orderItems
	return order, nil
}
