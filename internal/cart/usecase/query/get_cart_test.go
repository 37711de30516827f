package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/digital-market/internal/cart/domain"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
)

type stubCartRepository struct {
	cart  *domain.Cart
	items []domain.CartItem
}

var _ domain.CartRepository = &stubCartRepository{}

func (s *stubCartRepository) Create(cart *domain.Cart) error { return nil }

func (s *stubCartRepository) FindByCustomerID(customerID uint) (*domain.Cart, error) {
	if s.cart == nil || s.cart.CustomerID != customerID {
		return nil, domain.ErrCartNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepository) Items(cartID uint) ([]domain.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepository) FindItem(cartID, productID uint) (*domain.CartItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubCartRepository) SaveItem(item *domain.CartItem) error   { return nil }
func (s *stubCartRepository) DeleteItem(item *domain.CartItem) error { return nil }
func (s *stubCartRepository) ClearItems(cartID uint) error           { return nil }

func (s *stubCartRepository) InTx(fn func(domain.CartRepository) error) error {
	return fn(s)
}

func TestGetCartTotals(t *testing.T) {
	repo := &stubCartRepository{
		cart: &domain.Cart{ID: 1, CustomerID: 7},
		items: []domain.CartItem{
			{CartID: 1, ProductID: 1, Quantity: 2, Product: catalog.Product{Price: 1000, Discount: 10}},
			{CartID: 1, ProductID: 2, Quantity: 1, Product: catalog.Product{Price: 500}},
		},
	}
	handler := NewGetCartHandler(repo)

	info, err := handler.Handle(GetCartQuery{CustomerID: 7})
	require.NoError(t, err)

	// 2 * 900 + 1 * 500
	assert.Equal(t, 2300, info.TotalPrice)
	assert.Equal(t, 3, info.TotalQuantity)
	assert.Len(t, info.Items, 2)
}

func TestGetCartEmptyButExisting(t *testing.T) {
	// A customer whose cart has no lines gets [] for items, never null
	repo := &stubCartRepository{cart: &domain.Cart{ID: 1, CustomerID: 7}}
	handler := NewGetCartHandler(repo)

	info, err := handler.Handle(GetCartQuery{CustomerID: 7})
	require.NoError(t, err)

	assert.NotNil(t, info.Items)
	assert.Len(t, info.Items, 0)
	assert.Equal(t, uint(1), info.Cart.ID)
}

func TestGetCartAnonymous(t *testing.T) {
	handler := NewGetCartHandler(&stubCartRepository{})

	info, err := handler.Handle(GetCartQuery{})
	require.NoError(t, err)

	assert.Nil(t, info.Cart)
	assert.Empty(t, info.Items)
	assert.Zero(t, info.TotalPrice)
	assert.Zero(t, info.TotalQuantity)
}

func TestGetCartUnknownCustomer(t *testing.T) {
	handler := NewGetCartHandler(&stubCartRepository{})

	info, err := handler.Handle(GetCartQuery{CustomerID: 99})
	require.NoError(t, err)
	assert.Empty(t, info.Items)
}
