package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/tair/digital-market/internal/customer/domain"
)

// UpdateProfileCommand updates account and commerce attributes together
type UpdateProfileCommand struct {
	UserID      uint
	Username    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	City        string
	Address     string
	Region      string
	Photo       string
}

// UpdateProfileHandler handles profile updates
type UpdateProfileHandler struct {
	repo domain.CustomerRepository
}

// NewUpdateProfileHandler creates a new update profile handler
func NewUpdateProfileHandler(repo domain.CustomerRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

// Handle executes the update profile command
func (h *UpdateProfileHandler) Handle(cmd UpdateProfileCommand) (*domain.Customer, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if cmd.Email != "" && !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}

	user, err := h.repo.FindUserByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	customer, err := h.repo.FindByUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Username != "" {
		user.Username = cmd.Username
	}
	if cmd.Email != "" {
		user.Email = cmd.Email
	}
	if cmd.FirstName != "" {
		user.FirstName = cmd.FirstName
	}
	if cmd.LastName != "" {
		user.LastName = cmd.LastName
	}
	user.UpdatedAt = time.Now()

	if err := h.repo.UpdateUser(user); err != nil {
		return nil, err
	}

	if cmd.PhoneNumber != "" {
		customer.PhoneNumber = cmd.PhoneNumber
	}
	if cmd.City != "" {
		customer.City = cmd.City
	}
	if cmd.Address != "" {
		customer.Address = cmd.Address
	}
	if cmd.Region != "" {
		customer.Region = cmd.Region
	}
	if cmd.Photo != "" {
		customer.Photo = cmd.Photo
	}

	if err := h.repo.UpdateCustomer(customer); err != nil {
		return nil, err
	}

	customer.User = *user
	return customer, nil
}
