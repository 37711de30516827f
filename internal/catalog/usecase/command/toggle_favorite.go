package command

import (
	"fmt"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// ToggleFavoriteCommand flips the favorite mark for a (user, product) pair
type ToggleFavoriteCommand struct {
	UserID      uint
	ProductSlug string
}

// ToggleFavoriteHandler handles toggle favorite command
type ToggleFavoriteHandler struct {
	repo domain.CatalogRepository
}

// NewToggleFavoriteHandler creates a new toggle favorite handler
func NewToggleFavoriteHandler(repo domain.CatalogRepository) *ToggleFavoriteHandler {
	return &ToggleFavoriteHandler{repo: repo}
}

// Handle executes the toggle favorite command and returns the resulting state
func (h *ToggleFavoriteHandler) Handle(cmd ToggleFavoriteCommand) (bool, error) {
	if cmd.UserID == 0 {
		return false, fmt.Errorf("user id is required")
	}
	if cmd.ProductSlug == "" {
		return false, fmt.Errorf("product slug is required")
	}

	product, err := h.repo.FindProductBySlug(cmd.ProductSlug)
	if err != nil {
		return false, err
	}

	favorited, err := h.repo.ToggleFavorite(cmd.UserID, product.ID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return favorited, nil
}
