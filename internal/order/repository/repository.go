package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	cart "github.com/tair/digital-market/internal/cart/domain"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
	"github.com/tair/digital-market/internal/order/domain"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AutoMigrate runs database migrations for order entities
func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Delivery{}, &domain.Order{}, &domain.OrderItem{})
}

// Place runs the whole order snapshot as one transaction: delivery, order,
// item snapshots, per-product stock decrement and cart line removal either
// all commit or none do.
func (r *GormOrderRepository) Place(delivery *domain.Delivery, order *domain.Order, items []domain.OrderItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}

		order.DeliveryID = delivery.ID
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
			err := tx.Model(&catalog.Product{}).
				Where("id = ?", items[i].ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", items[i].Quantity)).Error
			if err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", order.CartID).Delete(&cart.CartItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	return nil
}

// FindByID retrieves an order with its items and delivery
func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Items").Preload("Delivery").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// FindByCustomerID lists a customer's orders, newest first
func (r *GormOrderRepository) FindByCustomerID(customerID uint, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	query := r.db.Where("customer_id = ?", customerID).
		Preload("Items").
		Preload("Delivery").
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	return orders, nil
}

// MarkCompleted flips the completed flag after payment settles
func (r *GormOrderRepository) MarkCompleted(id uint) error {
	result := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("completed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark order completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
