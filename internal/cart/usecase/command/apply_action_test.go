package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/digital-market/internal/cart/domain"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
)

type mockCartRepository struct {
	cart   *domain.Cart
	items  map[uint]*domain.CartItem // keyed by product id
	nextID uint
}

var _ domain.CartRepository = &mockCartRepository{}

func newMockCartRepository(customerID uint) *mockCartRepository {
	return &mockCartRepository{
		cart:   &domain.Cart{ID: 1, CustomerID: customerID},
		items:  make(map[uint]*domain.CartItem),
		nextID: 1,
	}
}

func (m *mockCartRepository) Create(cart *domain.Cart) error {
	m.cart = cart
	return nil
}

func (m *mockCartRepository) FindByCustomerID(customerID uint) (*domain.Cart, error) {
	if m.cart == nil || m.cart.CustomerID != customerID {
		return nil, domain.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepository) Items(cartID uint) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, *item)
	}
	return items, nil
}

func (m *mockCartRepository) FindItem(cartID, productID uint) (*domain.CartItem, error) {
	item, ok := m.items[productID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockCartRepository) SaveItem(item *domain.CartItem) error {
	if item.ID == 0 {
		item.ID = m.nextID
		m.nextID++
	}
	copied := *item
	m.items[item.ProductID] = &copied
	return nil
}

func (m *mockCartRepository) DeleteItem(item *domain.CartItem) error {
	delete(m.items, item.ProductID)
	return nil
}

func (m *mockCartRepository) ClearItems(cartID uint) error {
	m.items = make(map[uint]*domain.CartItem)
	return nil
}

func (m *mockCartRepository) InTx(fn func(domain.CartRepository) error) error {
	return fn(m)
}

type mockCatalogRepository struct {
	products map[string]*catalog.Product
}

var _ catalog.CatalogRepository = &mockCatalogRepository{}

func (m *mockCatalogRepository) RootCategories() ([]catalog.Category, error) { return nil, nil }
func (m *mockCatalogRepository) FindCategoryBySlug(slug string) (*catalog.Category, error) {
	return nil, catalog.ErrNotFound
}
func (m *mockCatalogRepository) FindProductBySlug(slug string) (*catalog.Product, error) {
	product, ok := m.products[slug]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return product, nil
}
func (m *mockCatalogRepository) FindProductsByCategory(categoryID uint, filter catalog.ProductFilter, limit, offset int) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}
func (m *mockCatalogRepository) FindProductsByModel(modelID uint) ([]catalog.Product, error) {
	return nil, nil
}
func (m *mockCatalogRepository) FindRelatedProducts(product *catalog.Product) ([]catalog.Product, error) {
	return nil, nil
}
func (m *mockCatalogRepository) SearchProducts(query string, limit, offset int) ([]catalog.Product, error) {
	return nil, nil
}
func (m *mockCatalogRepository) ToggleFavorite(userID, productID uint) (bool, error) {
	return false, nil
}
func (m *mockCatalogRepository) FindFavorites(userID uint) ([]catalog.FavoriteProduct, error) {
	return nil, nil
}
func (m *mockCatalogRepository) IsFavorite(userID, productID uint) (bool, error) {
	return false, nil
}

func setupApplyAction(stock int) (*ApplyActionHandler, *mockCartRepository) {
	carts := newMockCartRepository(7)
	catalogRepo := &mockCatalogRepository{
		products: map[string]*catalog.Product{
			"iphone-15": {ID: 42, Title: "iPhone 15", Slug: "iphone-15", Price: 1000, Quantity: stock},
		},
	}
	return NewApplyActionHandler(carts, catalogRepo), carts
}

func TestApplyActionAdd(t *testing.T) {
	t.Run("Increments up to stock", func(t *testing.T) {
		handler, carts := setupApplyAction(3)
		cmd := ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionAdd}

		for i := 0; i < 3; i++ {
			require.NoError(t, handler.Handle(cmd))
		}
		assert.Equal(t, 3, carts.items[42].Quantity)

		err := handler.Handle(cmd)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 3, carts.items[42].Quantity, "quantity stays capped at stock")
	})

	t.Run("Out of stock product cannot be added", func(t *testing.T) {
		handler, carts := setupApplyAction(0)
		err := handler.Handle(ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionAdd})

		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Empty(t, carts.items)
	})

	t.Run("Unknown product", func(t *testing.T) {
		handler, _ := setupApplyAction(3)
		err := handler.Handle(ApplyActionCommand{CustomerID: 7, ProductSlug: "nope", Action: domain.ActionAdd})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestApplyActionDelete(t *testing.T) {
	handler, carts := setupApplyAction(5)
	add := ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionAdd}
	del := ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionDelete}

	require.NoError(t, handler.Handle(add))
	require.NoError(t, handler.Handle(add))

	require.NoError(t, handler.Handle(del))
	assert.Equal(t, 1, carts.items[42].Quantity)

	// Dropping to zero removes the line entirely
	require.NoError(t, handler.Handle(del))
	assert.NotContains(t, carts.items, uint(42))

	// Deleting an absent line is a no-op
	require.NoError(t, handler.Handle(del))
	assert.Empty(t, carts.items)
}

func TestApplyActionClear(t *testing.T) {
	t.Run("Single line clear removes that line", func(t *testing.T) {
		handler, carts := setupApplyAction(5)
		add := ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionAdd}
		require.NoError(t, handler.Handle(add))
		require.NoError(t, handler.Handle(add))

		require.NoError(t, handler.Handle(ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionClear}))
		assert.Empty(t, carts.items)
	})

	t.Run("Whole cart clear with empty slug", func(t *testing.T) {
		handler, carts := setupApplyAction(5)
		add := ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: domain.ActionAdd}
		require.NoError(t, handler.Handle(add))

		require.NoError(t, handler.Handle(ApplyActionCommand{CustomerID: 7, Action: domain.ActionClear}))
		assert.Empty(t, carts.items)
	})
}

func TestApplyActionValidation(t *testing.T) {
	handler, _ := setupApplyAction(5)

	err := handler.Handle(ApplyActionCommand{CustomerID: 7, ProductSlug: "iphone-15", Action: "increment"})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	err = handler.Handle(ApplyActionCommand{CustomerID: 99, ProductSlug: "iphone-15", Action: domain.ActionAdd})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}
