package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// GetProductQuery represents the query for a single product card
type GetProductQuery struct {
	Slug string
}

// ProductDetailResult carries the product plus its related sets
type ProductDetailResult struct {
	Product    *domain.Product  `json:"product"`
	SameModel  []domain.Product `json:"same_model"`
	SameFamily []domain.Product `json:"same_family"`
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.CatalogRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.CatalogRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(q GetProductQuery) (*ProductDetailResult, error) {
	if q.Slug == "" {
		return nil, fmt.Errorf("product slug is required")
	}

	product, err := h.repo.FindProductBySlug(q.Slug)
	if err != nil {
		return nil, err
	}

	sameModel, err := h.repo.FindProductsByModel(product.ModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find same-model products: %w", err)
	}

	sameFamily, err := h.repo.FindRelatedProducts(product)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}

	return &ProductDetailResult{
		Product:    product,
		SameModel:  sameModel,
		SameFamily: sameFamily,
	}, nil
}
