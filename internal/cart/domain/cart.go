package domain

import (
	"errors"
	"time"

	catalog "github.com/tair/digital-market/internal/catalog/domain"
)

// Cart actions
const (
	ActionAdd    = "add"
	ActionDelete = "delete"
	ActionClear  = "clear"
)

// Errors surfaced by the cart context
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAction     = errors.New("invalid cart action")
)

// Cart belongs to exactly one customer and is created at registration time
type Cart struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a (product, cart) line with a quantity. Lines never persist
// at quantity zero; the composite unique index backs the get-or-create.
type CartItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	CartID    uint            `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint            `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Product   catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity" gorm:"not null;default:0"`
	AddedAt   time.Time       `json:"added_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// TotalPrice returns quantity times the product's effective price
func (i *CartItem) TotalPrice() int {
	return i.Quantity * i.Product.EffectivePrice()
}

// CartInfo is the read snapshot of a customer's cart
type CartInfo struct {
	Cart          *Cart      `json:"cart,omitempty"`
	Items         []CartItem `json:"items"`
	TotalPrice    int        `json:"total_price"`
	TotalQuantity int        `json:"total_quantity"`
}

// EmptyCartInfo is the snapshot returned for unauthenticated callers
func EmptyCartInfo() *CartInfo {
	return &CartInfo{Items: []CartItem{}}
}

// CartRepository defines the contract for cart data access.
// InTx runs fn against a repository bound to a single transaction;
// every multi-step cart mutation goes through it.
type CartRepository interface {
	Create(cart *Cart) error
	FindByCustomerID(customerID uint) (*Cart, error)
	Items(cartID uint) ([]CartItem, error)
	FindItem(cartID, productID uint) (*CartItem, error)
	SaveItem(item *CartItem) error
	DeleteItem(item *CartItem) error
	ClearItems(cartID uint) error
	InTx(fn func(CartRepository) error) error
}
