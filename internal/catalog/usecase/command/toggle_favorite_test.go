package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/digital-market/internal/catalog/domain"
)

type mockCatalogRepository struct {
	products  map[string]*domain.Product
	favorites map[[2]uint]bool // (userID, productID)
}

var _ domain.CatalogRepository = &mockCatalogRepository{}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{
		products:  make(map[string]*domain.Product),
		favorites: make(map[[2]uint]bool),
	}
}

func (m *mockCatalogRepository) RootCategories() ([]domain.Category, error) {
	return nil, nil
}

func (m *mockCatalogRepository) FindCategoryBySlug(slug string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalogRepository) FindProductBySlug(slug string) (*domain.Product, error) {
	product, ok := m.products[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (m *mockCatalogRepository) FindProductsByCategory(categoryID uint, filter domain.ProductFilter, limit, offset int) ([]domain.Product, int64, error) {
	return nil, 0, nil
}

func (m *mockCatalogRepository) FindProductsByModel(modelID uint) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogRepository) FindRelatedProducts(product *domain.Product) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogRepository) SearchProducts(query string, limit, offset int) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogRepository) ToggleFavorite(userID, productID uint) (bool, error) {
	key := [2]uint{userID, productID}
	if m.favorites[key] {
		delete(m.favorites, key)
		return false, nil
	}
	m.favorites[key] = true
	return true, nil
}

func (m *mockCatalogRepository) FindFavorites(userID uint) ([]domain.FavoriteProduct, error) {
	var favorites []domain.FavoriteProduct
	for key := range m.favorites {
		if key[0] != userID {
			continue
		}
		favorites = append(favorites, domain.FavoriteProduct{UserID: key[0], ProductID: key[1]})
	}
	return favorites, nil
}

func (m *mockCatalogRepository) IsFavorite(userID, productID uint) (bool, error) {
	return m.favorites[[2]uint{userID, productID}], nil
}

func TestToggleFavorite(t *testing.T) {
	repo := newMockCatalogRepository()
	repo.products["iphone-15"] = &domain.Product{ID: 42, Slug: "iphone-15", Title: "iPhone 15"}
	handler := NewToggleFavoriteHandler(repo)

	cmd := ToggleFavoriteCommand{UserID: 7, ProductSlug: "iphone-15"}

	favorited, err := handler.Handle(cmd)
	require.NoError(t, err)
	assert.True(t, favorited)

	marked, err := repo.IsFavorite(7, 42)
	require.NoError(t, err)
	assert.True(t, marked)

	// Toggling again removes the mark
	favorited, err = handler.Handle(cmd)
	require.NoError(t, err)
	assert.False(t, favorited)

	marked, err = repo.IsFavorite(7, 42)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestToggleFavoriteUnknownProduct(t *testing.T) {
	repo := newMockCatalogRepository()
	handler := NewToggleFavoriteHandler(repo)

	_, err := handler.Handle(ToggleFavoriteCommand{UserID: 7, ProductSlug: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleFavoriteValidation(t *testing.T) {
	repo := newMockCatalogRepository()
	repo.products["iphone-15"] = &domain.Product{ID: 42, Slug: "iphone-15"}
	handler := NewToggleFavoriteHandler(repo)

	_, err := handler.Handle(ToggleFavoriteCommand{UserID: 0, ProductSlug: "iphone-15"})
	assert.Error(t, err)

	_, err = handler.Handle(ToggleFavoriteCommand{UserID: 7, ProductSlug: ""})
	assert.Error(t, err)

	assert.Empty(t, repo.favorites)
}
