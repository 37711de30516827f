package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/tair/digital-market/internal/customer/domain"
	"github.com/tair/digital-market/pkg/auth"
)

// RegisterCustomerCommand represents the command to register a new account
type RegisterCustomerCommand struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Photo       string
}

// RegisterCustomerHandler handles account registration
type RegisterCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewRegisterCustomerHandler creates a new register customer handler
func NewRegisterCustomerHandler(repo domain.CustomerRepository) *RegisterCustomerHandler {
	return &RegisterCustomerHandler{repo: repo}
}

// Handle executes the register customer command. The user, the customer
// profile and an empty cart are created together.
func (h *RegisterCustomerHandler) Handle(cmd RegisterCustomerCommand) (*domain.Customer, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	if existing, _ := h.repo.FindUserByUsername(cmd.Username); existing != nil {
		return nil, fmt.Errorf("%w: username taken", domain.ErrAlreadyExists)
	}
	if existing, _ := h.repo.FindUserByEmail(cmd.Email); existing != nil {
		return nil, fmt.Errorf("%w: email taken", domain.ErrAlreadyExists)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  hashedPassword,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      domain.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	customer := &domain.Customer{
		PhoneNumber: cmd.PhoneNumber,
		Photo:       cmd.Photo,
	}

	if err := h.repo.Register(user, customer); err != nil {
		return nil, err
	}

	customer.User = *user
	return customer, nil
}
