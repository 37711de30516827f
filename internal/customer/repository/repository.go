package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	cart "github.com/tair/digital-market/internal/cart/domain"
	"github.com/tair/digital-market/internal/customer/domain"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// AutoMigrate runs database migrations for account entities
func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{}, &domain.Customer{})
}

// Register creates the user, the customer profile and the customer's empty
// cart in a single transaction
func (r *GormCustomerRepository) Register(user *domain.User, customer *domain.Customer) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		customer.UserID = user.ID
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		return tx.Create(&cart.Cart{CustomerID: customer.ID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by ID
func (r *GormCustomerRepository) FindUserByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindUserByUsername retrieves a user by username
func (r *GormCustomerRepository) FindUserByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindUserByEmail retrieves a user by email
func (r *GormCustomerRepository) FindUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByUserID retrieves the customer profile for a user
func (r *GormCustomerRepository) FindByUserID(userID uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.Where("user_id = ?", userID).Preload("User").First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByID retrieves a customer by ID
func (r *GormCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.Preload("User").First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// UpdateUser updates account identity fields
func (r *GormCustomerRepository) UpdateUser(user *domain.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateCustomer updates commerce profile fields
func (r *GormCustomerRepository) UpdateCustomer(customer *domain.Customer) error {
	if err := r.db.Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
