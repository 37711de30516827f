package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/catalog/domain"
)

const defaultPageSize = 12

// GetCategoryProductsQuery lists a category's products with filters
type GetCategoryProductsQuery struct {
	Slug      string
	Page      int
	PageSize  int
	PriceMin  int
	PriceMax  int
	ModelSlug string
}

// CategoryProductsResult is the paginated listing for a category page
type CategoryProductsResult struct {
	Category *domain.Category `json:"category"`
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// GetCategoryProductsHandler handles category product listing
type GetCategoryProductsHandler struct {
	repo domain.CatalogRepository
}

// NewGetCategoryProductsHandler creates a new category products handler
func NewGetCategoryProductsHandler(repo domain.CatalogRepository) *GetCategoryProductsHandler {
	return &GetCategoryProductsHandler{repo: repo}
}

// Handle executes the category products query
func (h *GetCategoryProductsHandler) Handle(q GetCategoryProductsQuery) (*CategoryProductsResult, error) {
	if q.Slug == "" {
		return nil, fmt.Errorf("category slug is required")
	}

	category, err := h.repo.FindCategoryBySlug(q.Slug)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	filter := domain.ProductFilter{
		PriceMin:  q.PriceMin,
		PriceMax:  q.PriceMax,
		ModelSlug: q.ModelSlug,
	}

	products, total, err := h.repo.FindProductsByCategory(category.ID, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list category products: %w", err)
	}

	return &CategoryProductsResult{
		Category: category,
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
