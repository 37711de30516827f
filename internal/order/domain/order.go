package domain

import (
	"errors"
	"time"
)

// Errors surfaced by the order context
var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotFound  = errors.New("order not found")
)

// Delivery is an immutable snapshot of recipient and address data, created
// fresh per checkout; only the status flag moves afterwards
type Delivery struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;index"`
	FirstName  string    `json:"first_name" gorm:"not null"`
	LastName   string    `json:"last_name" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null"`
	Phone      string    `json:"phone" gorm:"not null"`
	Comment    string    `json:"comment"`
	Region     string    `json:"region" gorm:"not null"`
	City       string    `json:"city" gorm:"not null"`
	Address    string    `json:"address" gorm:"not null"`
	Status     bool      `json:"status" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Delivery) TableName() string {
	return "deliveries"
}

// Order links the customer, their cart and exactly one delivery; created
// once per successful payment and never mutated beyond the completed flag
type Order struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	CustomerID uint        `json:"customer_id" gorm:"not null;index"`
	CartID     uint        `json:"cart_id" gorm:"not null"`
	DeliveryID uint        `json:"delivery_id" gorm:"uniqueIndex;not null"`
	Delivery   Delivery    `json:"delivery,omitempty" gorm:"foreignKey:DeliveryID"`
	Price      int         `json:"price" gorm:"not null;default:0"`
	Completed  bool        `json:"completed" gorm:"default:false"`
	Items      []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a denormalized line snapshot copied from the cart at order
// creation time, so later catalog edits never change order history.
// ProductID is kept for the stock decrement, without a foreign key.
type OrderItem struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	OrderID    uint   `json:"order_id" gorm:"not null;index"`
	ProductID  uint   `json:"product_id" gorm:"not null"`
	Name       string `json:"name" gorm:"not null"`
	Slug       string `json:"slug" gorm:"not null"`
	Price      int    `json:"price" gorm:"not null;default:0"`
	Photo      string `json:"photo"`
	ColorName  string `json:"color_name"`
	Quantity   int    `json:"quantity" gorm:"not null;default:0"`
	TotalPrice int    `json:"total_price" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderRepository defines the contract for order data access.
// Place persists the delivery, the order and its item snapshots, decrements
// each product's stock by the consumed quantity and deletes the cart's
// lines, all in one transaction.
type OrderRepository interface {
	Place(delivery *Delivery, order *Order, items []OrderItem) error
	FindByID(id uint) (*Order, error)
	FindByCustomerID(customerID uint, limit, offset int) ([]Order, error)
	MarkCompleted(id uint) error
}
