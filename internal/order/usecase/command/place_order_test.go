package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/tair/digital-market/internal/cart/domain"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
	"github.com/tair/digital-market/internal/order/domain"
)

type mockOrderRepository struct {
	placed     []*domain.Order
	deliveries []*domain.Delivery
	items      [][]domain.OrderItem
	completed  []uint
}

var _ domain.OrderRepository = &mockOrderRepository{}

func (m *mockOrderRepository) Place(delivery *domain.Delivery, order *domain.Order, items []domain.OrderItem) error {
	delivery.ID = uint(len(m.deliveries) + 1)
	order.ID = uint(len(m.placed) + 1)
	order.DeliveryID = delivery.ID
	m.deliveries = append(m.deliveries, delivery)
	m.placed = append(m.placed, order)
	m.items = append(m.items, items)
	return nil
}

func (m *mockOrderRepository) FindByID(id uint) (*domain.Order, error) {
	for _, order := range m.placed {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockOrderRepository) FindByCustomerID(customerID uint, limit, offset int) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range m.placed {
		if order.CustomerID == customerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) MarkCompleted(id uint) error {
	m.completed = append(m.completed, id)
	return nil
}

type mockCartRepository struct {
	cart  *cart.Cart
	items []cart.CartItem
}

var _ cart.CartRepository = &mockCartRepository{}

func (m *mockCartRepository) Create(c *cart.Cart) error { return nil }

func (m *mockCartRepository) FindByCustomerID(customerID uint) (*cart.Cart, error) {
	if m.cart == nil || m.cart.CustomerID != customerID {
		return nil, cart.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepository) Items(cartID uint) ([]cart.CartItem, error) {
	return m.items, nil
}

func (m *mockCartRepository) FindItem(cartID, productID uint) (*cart.CartItem, error) {
	return nil, cart.ErrItemNotFound
}

func (m *mockCartRepository) SaveItem(item *cart.CartItem) error   { return nil }
func (m *mockCartRepository) DeleteItem(item *cart.CartItem) error { return nil }
func (m *mockCartRepository) ClearItems(cartID uint) error         { return nil }

func (m *mockCartRepository) InTx(fn func(cart.CartRepository) error) error {
	return fn(m)
}

func validDelivery() domain.DeliveryForm {
	return domain.DeliveryForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+100200300",
		Region:    "London",
		City:      "London",
		Address:   "12 St James Square",
	}
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	orders := &mockOrderRepository{}
	carts := &mockCartRepository{
		cart: &cart.Cart{ID: 3, CustomerID: 7},
		items: []cart.CartItem{
			{CartID: 3, ProductID: 42, Quantity: 2, Product: catalog.Product{
				ID: 42, Title: "iPhone 15", Slug: "iphone-15", Price: 1000, Discount: 10,
				Image: "iphone.jpg", ColorName: "Black",
			}},
			{CartID: 3, ProductID: 43, Quantity: 1, Product: catalog.Product{
				ID: 43, Title: "AirPods", Slug: "airpods", Price: 250,
			}},
		},
	}
	handler := NewPlaceOrderHandler(orders, carts)

	order, err := handler.Handle(PlaceOrderCommand{CustomerID: 7, Delivery: validDelivery()})
	require.NoError(t, err)

	// 2 * 900 + 1 * 250
	assert.Equal(t, 2050, order.Price)
	assert.Equal(t, uint(7), order.CustomerID)
	assert.Equal(t, uint(3), order.CartID)
	assert.False(t, order.Completed)

	require.Len(t, orders.items, 1)
	snapshots := orders.items[0]
	require.Len(t, snapshots, 2)

	assert.Equal(t, "iPhone 15", snapshots[0].Name)
	assert.Equal(t, 900, snapshots[0].Price)
	assert.Equal(t, 2, snapshots[0].Quantity)
	assert.Equal(t, 1800, snapshots[0].TotalPrice)
	assert.Equal(t, "Black", snapshots[0].ColorName)

	require.Len(t, orders.deliveries, 1)
	assert.Equal(t, "Ada", orders.deliveries[0].FirstName)
	assert.Equal(t, uint(7), orders.deliveries[0].CustomerID)

	assert.Equal(t, orders.deliveries[0].ID, order.DeliveryID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	orders := &mockOrderRepository{}
	carts := &mockCartRepository{cart: &cart.Cart{ID: 3, CustomerID: 7}}
	handler := NewPlaceOrderHandler(orders, carts)

	_, err := handler.Handle(PlaceOrderCommand{CustomerID: 7, Delivery: validDelivery()})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, orders.placed)
}

func TestPlaceOrderInvalidDelivery(t *testing.T) {
	handler := NewPlaceOrderHandler(&mockOrderRepository{}, &mockCartRepository{})

	form := validDelivery()
	form.Email = "not-an-email"
	_, err := handler.Handle(PlaceOrderCommand{CustomerID: 7, Delivery: form})
	assert.Error(t, err)

	_, err = handler.Handle(PlaceOrderCommand{CustomerID: 7})
	assert.Error(t, err)
}
