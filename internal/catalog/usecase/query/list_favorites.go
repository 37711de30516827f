package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// ListFavoritesQuery represents the query for a user's favorite products
type ListFavoritesQuery struct {
	UserID uint
}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	repo domain.CatalogRepository
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.CatalogRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle executes the list favorites query
func (h *ListFavoritesHandler) Handle(q ListFavoritesQuery) ([]domain.FavoriteProduct, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}

	favorites, err := h.repo.FindFavorites(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}
