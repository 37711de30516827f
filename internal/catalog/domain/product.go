package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a product, category or model slug is unknown
var ErrNotFound = errors.New("not found")

// ProductModel groups products that belong to the same model line
type ProductModel struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null"`
	Slug  string `json:"slug" gorm:"uniqueIndex;not null"`
}

// TableName specifies the table name
func (ProductModel) TableName() string {
	return "product_models"
}

// Product represents a catalog product with integer pricing
type Product struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Title      string         `json:"title" gorm:"not null"`
	Slug       string         `json:"slug" gorm:"uniqueIndex;not null"`
	Quantity   int            `json:"quantity" gorm:"not null;default:0"`
	Price      int            `json:"price" gorm:"not null;default:0"`
	Discount   int            `json:"discount" gorm:"not null;default:0"` // percent, 0-100
	ColorName  string         `json:"color_name" gorm:"default:'White'"`
	ColorCode  string         `json:"color_code" gorm:"default:'#ffffff'"`
	Guarantee  int            `json:"guarantee" gorm:"default:0"`
	Image      string         `json:"image"`
	CategoryID uint           `json:"category_id" gorm:"not null;index"`
	Category   Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ModelID    uint           `json:"model_id" gorm:"index"`
	Model      ProductModel   `json:"model,omitempty" gorm:"foreignKey:ModelID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Characteristics []ProductCharacteristic `json:"characteristics,omitempty" gorm:"foreignKey:ProductID"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// EffectivePrice returns the price after the discount is applied,
// using integer floor division
func (p *Product) EffectivePrice() int {
	if p.Discount > 0 {
		return p.Price - p.Price*p.Discount/100
	}
	return p.Price
}

// MonthlyPrice returns the effective price split over 12 months
func (p *Product) MonthlyPrice() int {
	return p.EffectivePrice() / 12
}

// InStock reports whether the product has remaining stock
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// Characteristic is a named attribute type shared across products
type Characteristic struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

// TableName specifies the table name
func (Characteristic) TableName() string {
	return "characteristics"
}

// ProductCharacteristic is a (product, characteristic) value pair
type ProductCharacteristic struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ProductID        uint           `json:"product_id" gorm:"not null;uniqueIndex:idx_product_characteristic"`
	CharacteristicID uint           `json:"characteristic_id" gorm:"not null;uniqueIndex:idx_product_characteristic"`
	Characteristic   Characteristic `json:"characteristic,omitempty" gorm:"foreignKey:CharacteristicID"`
	Value            string         `json:"value" gorm:"not null"`
}

// TableName specifies the table name
func (ProductCharacteristic) TableName() string {
	return "product_characteristics"
}

// FavoriteProduct marks a product as favorited by a user
type FavoriteProduct struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Product   Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (FavoriteProduct) TableName() string {
	return "favorite_products"
}

// ProductFilter narrows category product listings
type ProductFilter struct {
	PriceMin  int
	PriceMax  int
	ModelSlug string
}

// CatalogRepository defines the contract for catalog data access
type CatalogRepository interface {
	RootCategories() ([]Category, error)
	FindCategoryBySlug(slug string) (*Category, error)
	FindProductBySlug(slug string) (*Product, error)
	FindProductsByCategory(categoryID uint, filter ProductFilter, limit, offset int) ([]Product, int64, error)
	FindProductsByModel(modelID uint) ([]Product, error)
	FindRelatedProducts(product *Product) ([]Product, error)
	SearchProducts(query string, limit, offset int) ([]Product, error)

	// User favorites; ToggleFavorite runs as one transaction
	ToggleFavorite(userID, productID uint) (favorited bool, err error)
	FindFavorites(userID uint) ([]FavoriteProduct, error)
	IsFavorite(userID, productID uint) (bool, error)
}
