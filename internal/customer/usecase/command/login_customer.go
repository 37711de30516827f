package command

import (
	"fmt"

	"github.com/tair/digital-market/internal/customer/domain"
	"github.com/tair/digital-market/pkg/auth"
)

// LoginCustomerCommand represents the command to log an account in
type LoginCustomerCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token    string           `json:"token"`
	Customer *domain.Customer `json:"customer"`
}

// LoginCustomerHandler handles account login
type LoginCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewLoginCustomerHandler creates a new login customer handler
func NewLoginCustomerHandler(repo domain.CustomerRepository) *LoginCustomerHandler {
	return &LoginCustomerHandler{repo: repo}
}

// Handle executes the login command
func (h *LoginCustomerHandler) Handle(cmd LoginCustomerCommand) (*LoginResponse, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := h.repo.FindUserByUsername(cmd.Username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	customer, err := h.repo.FindByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:    token,
		Customer: customer,
	}, nil
}
