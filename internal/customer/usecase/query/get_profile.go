package query

import (
	"fmt"

	"github.com/tair/digital-market/internal/customer/domain"
)

// GetProfileQuery represents the query for a customer profile
type GetProfileQuery struct {
	UserID uint
}

// GetProfileHandler handles get profile query
type GetProfileHandler struct {
	repo domain.CustomerRepository
}

// NewGetProfileHandler creates a new get profile handler
func NewGetProfileHandler(repo domain.CustomerRepository) *GetProfileHandler {
	return &GetProfileHandler{repo: repo}
}

// Handle executes the get profile query
func (h *GetProfileHandler) Handle(q GetProfileQuery) (*domain.Customer, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}

	customer, err := h.repo.FindByUserID(q.UserID)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
