package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/digital-market/internal/customer/domain"
	"github.com/tair/digital-market/pkg/auth"
)

type mockCustomerRepository struct {
	users     map[uint]*domain.User
	customers map[uint]*domain.Customer // keyed by user id
	nextID    uint
	registers int
}

var _ domain.CustomerRepository = &mockCustomerRepository{}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{
		users:     make(map[uint]*domain.User),
		customers: make(map[uint]*domain.Customer),
		nextID:    1,
	}
}

func (m *mockCustomerRepository) Register(user *domain.User, customer *domain.Customer) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user

	customer.ID = user.ID
	customer.UserID = user.ID
	m.customers[user.ID] = customer

	m.registers++
	return nil
}

func (m *mockCustomerRepository) FindUserByID(id uint) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockCustomerRepository) FindUserByUsername(username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCustomerRepository) FindUserByEmail(email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCustomerRepository) FindByUserID(userID uint) (*domain.Customer, error) {
	customer, ok := m.customers[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (m *mockCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	for _, customer := range m.customers {
		if customer.ID == id {
			return customer, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCustomerRepository) UpdateUser(user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockCustomerRepository) UpdateCustomer(customer *domain.Customer) error {
	m.customers[customer.UserID] = customer
	return nil
}

func validRegister() RegisterCustomerCommand {
	return RegisterCustomerCommand{
		Username:    "ada",
		Email:       "ada@example.com",
		Password:    "s3cret!",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+100200300",
	}
}

func TestRegisterCustomer(t *testing.T) {
	repo := newMockCustomerRepository()
	handler := NewRegisterCustomerHandler(repo)

	customer, err := handler.Handle(validRegister())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.registers)
	assert.Equal(t, "ada", customer.User.Username)
	assert.Equal(t, domain.RoleUser, customer.User.Role)
	assert.True(t, customer.User.IsActive)

	// Stored password is a bcrypt hash, never the plaintext
	stored := repo.users[customer.UserID]
	assert.NotEqual(t, "s3cret!", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "s3cret!"))
}

func TestRegisterCustomerValidation(t *testing.T) {
	repo := newMockCustomerRepository()
	handler := NewRegisterCustomerHandler(repo)

	t.Run("Short password", func(t *testing.T) {
		cmd := validRegister()
		cmd.Password = "abc"
		_, err := handler.Handle(cmd)
		assert.Error(t, err)
	})

	t.Run("Invalid email", func(t *testing.T) {
		cmd := validRegister()
		cmd.Email = "nope"
		_, err := handler.Handle(cmd)
		assert.Error(t, err)
	})

	t.Run("Missing username", func(t *testing.T) {
		cmd := validRegister()
		cmd.Username = ""
		_, err := handler.Handle(cmd)
		assert.Error(t, err)
	})

	assert.Zero(t, repo.registers)
}

func TestRegisterCustomerDuplicates(t *testing.T) {
	repo := newMockCustomerRepository()
	handler := NewRegisterCustomerHandler(repo)

	_, err := handler.Handle(validRegister())
	require.NoError(t, err)

	t.Run("Duplicate username", func(t *testing.T) {
		cmd := validRegister()
		cmd.Email = "other@example.com"
		_, err := handler.Handle(cmd)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		cmd := validRegister()
		cmd.Username = "other"
		_, err := handler.Handle(cmd)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	assert.Equal(t, 1, repo.registers)
}

func TestLoginCustomer(t *testing.T) {
	repo := newMockCustomerRepository()
	registered, err := NewRegisterCustomerHandler(repo).Handle(validRegister())
	require.NoError(t, err)

	handler := NewLoginCustomerHandler(repo)

	t.Run("Success", func(t *testing.T) {
		response, err := handler.Handle(LoginCustomerCommand{Username: "ada", Password: "s3cret!"})
		require.NoError(t, err)

		assert.NotEmpty(t, response.Token)
		assert.Equal(t, registered.ID, response.Customer.ID)

		claims, err := auth.ValidateToken(response.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.UserID, claims.UserID)
		assert.Equal(t, "ada", claims.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := handler.Handle(LoginCustomerCommand{Username: "ada", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Unknown username", func(t *testing.T) {
		_, err := handler.Handle(LoginCustomerCommand{Username: "ghost", Password: "s3cret!"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		repo.users[registered.UserID].IsActive = false
		defer func() { repo.users[registered.UserID].IsActive = true }()

		_, err := handler.Handle(LoginCustomerCommand{Username: "ada", Password: "s3cret!"})
		assert.Error(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockCustomerRepository()
	registered, err := NewRegisterCustomerHandler(repo).Handle(validRegister())
	require.NoError(t, err)

	handler := NewUpdateProfileHandler(repo)

	customer, err := handler.Handle(UpdateProfileCommand{
		UserID: registered.UserID,
		City:   "London",
		Email:  "new@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "London", customer.City)
	assert.Equal(t, "new@example.com", customer.User.Email)
	// Untouched fields keep their values
	assert.Equal(t, "ada", customer.User.Username)
	assert.Equal(t, "+100200300", customer.PhoneNumber)
}
