package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/digital-market/internal/cart/domain"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// AutoMigrate runs database migrations for cart entities
func (r *GormCartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Cart{}, &domain.CartItem{})
}

// Create inserts a new cart
func (r *GormCartRepository) Create(cart *domain.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// FindByCustomerID retrieves the customer's cart
func (r *GormCartRepository) FindByCustomerID(customerID uint) (*domain.Cart, error) {
	var cart domain.Cart
	if err := r.db.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

// Items retrieves all cart lines with products preloaded
func (r *GormCartRepository) Items(cartID uint) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.Where("cart_id = ?", cartID).
		Preload("Product").
		Order("added_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}
	return items, nil
}

// FindItem retrieves a single cart line with its product preloaded
func (r *GormCartRepository) FindItem(cartID, productID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Preload("Product").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// SaveItem persists a cart line
func (r *GormCartRepository) SaveItem(item *domain.CartItem) error {
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a cart line
func (r *GormCartRepository) DeleteItem(item *domain.CartItem) error {
	if err := r.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ClearItems removes all lines of a cart unconditionally
func (r *GormCartRepository) ClearItems(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// InTx runs fn against a repository bound to one database transaction
func (r *GormCartRepository) InTx(fn func(domain.CartRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormCartRepository(tx))
	})
}
