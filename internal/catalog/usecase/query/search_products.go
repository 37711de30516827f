package query

import (
	"fmt"
	"strings"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// SearchProductsQuery represents a case-insensitive title search
type SearchProductsQuery struct {
	Query  string
	Limit  int
	Offset int
}

// SearchProductsHandler handles search products query
type SearchProductsHandler struct {
	repo domain.CatalogRepository
}

// NewSearchProductsHandler creates a new search products handler
func NewSearchProductsHandler(repo domain.CatalogRepository) *SearchProductsHandler {
	return &SearchProductsHandler{repo: repo}
}

// Handle executes the search products query
func (h *SearchProductsHandler) Handle(q SearchProductsQuery) ([]domain.Product, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return []domain.Product{}, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	products, err := h.repo.SearchProducts(query, limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
