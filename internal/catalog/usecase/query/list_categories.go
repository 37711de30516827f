package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// ListCategoriesQuery represents the query for the landing page category tree
type ListCategoriesQuery struct{}

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	repo domain.CatalogRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.CatalogRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle executes the list categories query
func (h *ListCategoriesHandler) Handle(_ ListCategoriesQuery) ([]domain.Category, error) {
	categories, err := h.repo.RootCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
