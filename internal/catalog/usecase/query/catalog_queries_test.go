package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/digital-market/internal/catalog/domain"
)

type stubCatalogRepository struct {
	categories map[string]*domain.Category
	products   map[string]*domain.Product

	searchCalls   []searchCall
	categoryCalls []categoryCall
}

type searchCall struct {
	query  string
	limit  int
	offset int
}

type categoryCall struct {
	categoryID uint
	filter     domain.ProductFilter
	limit      int
	offset     int
}

var _ domain.CatalogRepository = &stubCatalogRepository{}

func newStubCatalogRepository() *stubCatalogRepository {
	return &stubCatalogRepository{
		categories: make(map[string]*domain.Category),
		products:   make(map[string]*domain.Product),
	}
}

func (s *stubCatalogRepository) RootCategories() ([]domain.Category, error) {
	var roots []domain.Category
	for _, category := range s.categories {
		if category.IsRoot() {
			roots = append(roots, *category)
		}
	}
	return roots, nil
}

func (s *stubCatalogRepository) FindCategoryBySlug(slug string) (*domain.Category, error) {
	category, ok := s.categories[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

func (s *stubCatalogRepository) FindProductBySlug(slug string) (*domain.Product, error) {
	product, ok := s.products[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *stubCatalogRepository) FindProductsByCategory(categoryID uint, filter domain.ProductFilter, limit, offset int) ([]domain.Product, int64, error) {
	s.categoryCalls = append(s.categoryCalls, categoryCall{categoryID, filter, limit, offset})

	var matched []domain.Product
	for _, product := range s.products {
		if product.CategoryID == categoryID {
			matched = append(matched, *product)
		}
	}
	return matched, int64(len(matched)), nil
}

func (s *stubCatalogRepository) FindProductsByModel(modelID uint) ([]domain.Product, error) {
	var matched []domain.Product
	for _, product := range s.products {
		if product.ModelID == modelID {
			matched = append(matched, *product)
		}
	}
	return matched, nil
}

func (s *stubCatalogRepository) FindRelatedProducts(product *domain.Product) ([]domain.Product, error) {
	var related []domain.Product
	for _, other := range s.products {
		if other.CategoryID == product.CategoryID && other.ID != product.ID {
			related = append(related, *other)
		}
	}
	return related, nil
}

func (s *stubCatalogRepository) SearchProducts(query string, limit, offset int) ([]domain.Product, error) {
	s.searchCalls = append(s.searchCalls, searchCall{query, limit, offset})
	return []domain.Product{}, nil
}

func (s *stubCatalogRepository) ToggleFavorite(userID, productID uint) (bool, error) {
	return false, nil
}

func (s *stubCatalogRepository) FindFavorites(userID uint) ([]domain.FavoriteProduct, error) {
	return nil, nil
}

func (s *stubCatalogRepository) IsFavorite(userID, productID uint) (bool, error) {
	return false, nil
}

func TestSearchProducts(t *testing.T) {
	repo := newStubCatalogRepository()
	handler := NewSearchProductsHandler(repo)

	t.Run("Blank query skips the repository", func(t *testing.T) {
		products, err := handler.Handle(SearchProductsQuery{Query: "   "})
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Empty(t, repo.searchCalls)
	})

	t.Run("Query is trimmed and limit defaulted", func(t *testing.T) {
		_, err := handler.Handle(SearchProductsQuery{Query: "  iphone  "})
		require.NoError(t, err)

		require.Len(t, repo.searchCalls, 1)
		call := repo.searchCalls[0]
		assert.Equal(t, "iphone", call.query)
		assert.Equal(t, defaultPageSize, call.limit)
		assert.Zero(t, call.offset)
	})
}

func TestGetCategoryProducts(t *testing.T) {
	repo := newStubCatalogRepository()
	repo.categories["phones"] = &domain.Category{ID: 3, Title: "Phones", Slug: "phones"}
	repo.products["iphone-15"] = &domain.Product{ID: 42, Slug: "iphone-15", CategoryID: 3}
	handler := NewGetCategoryProductsHandler(repo)

	t.Run("Defaults page and page size", func(t *testing.T) {
		result, err := handler.Handle(GetCategoryProductsQuery{Slug: "phones"})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Page)
		assert.Equal(t, defaultPageSize, result.PageSize)
		assert.Equal(t, int64(1), result.Total)
		assert.Len(t, result.Products, 1)

		require.Len(t, repo.categoryCalls, 1)
		call := repo.categoryCalls[0]
		assert.Equal(t, defaultPageSize, call.limit)
		assert.Zero(t, call.offset)
	})

	t.Run("Offset follows the requested page", func(t *testing.T) {
		_, err := handler.Handle(GetCategoryProductsQuery{Slug: "phones", Page: 3, PageSize: 10})
		require.NoError(t, err)

		call := repo.categoryCalls[len(repo.categoryCalls)-1]
		assert.Equal(t, 10, call.limit)
		assert.Equal(t, 20, call.offset)
	})

	t.Run("Price and model filters pass through", func(t *testing.T) {
		_, err := handler.Handle(GetCategoryProductsQuery{Slug: "phones", PriceMin: 500, PriceMax: 2000, ModelSlug: "iphone"})
		require.NoError(t, err)

		call := repo.categoryCalls[len(repo.categoryCalls)-1]
		assert.Equal(t, domain.ProductFilter{PriceMin: 500, PriceMax: 2000, ModelSlug: "iphone"}, call.filter)
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := handler.Handle(GetCategoryProductsQuery{Slug: "ghost"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGetProduct(t *testing.T) {
	repo := newStubCatalogRepository()
	repo.products["iphone-15-black"] = &domain.Product{ID: 1, Slug: "iphone-15-black", CategoryID: 3, ModelID: 9}
	repo.products["iphone-15-white"] = &domain.Product{ID: 2, Slug: "iphone-15-white", CategoryID: 3, ModelID: 9}
	repo.products["galaxy-s24"] = &domain.Product{ID: 3, Slug: "galaxy-s24", CategoryID: 3, ModelID: 11}
	handler := NewGetProductHandler(repo)

	result, err := handler.Handle(GetProductQuery{Slug: "iphone-15-black"})
	require.NoError(t, err)

	assert.Equal(t, uint(1), result.Product.ID)
	assert.Len(t, result.SameModel, 2)
	assert.Len(t, result.SameFamily, 2)

	_, err = handler.Handle(GetProductQuery{Slug: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
