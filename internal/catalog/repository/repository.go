package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/digital-market/internal/catalog/domain"
)

// GormCatalogRepository implements CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// AutoMigrate runs database migrations for catalog entities
func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Category{},
		&domain.ProductModel{},
		&domain.Characteristic{},
		&domain.Product{},
		&domain.ProductCharacteristic{},
		&domain.FavoriteProduct{},
	)
}

// RootCategories retrieves top-level categories with their subcategories
func (r *GormCatalogRepository) RootCategories() ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Where("parent_id IS NULL").Preload("Subcategories").Order("title").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to find root categories: %w", err)
	}
	return categories, nil
}

// FindCategoryBySlug retrieves a category with its subcategories
func (r *GormCatalogRepository) FindCategoryBySlug(slug string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.Where("slug = ?", slug).Preload("Subcategories").First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// FindProductBySlug retrieves a product with category, model and characteristics
func (r *GormCatalogRepository) FindProductBySlug(slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Where("slug = ?", slug).
		Preload("Category").
		Preload("Model").
		Preload("Characteristics.Characteristic").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindProductsByCategory lists products that belong to a category's subtree,
// optionally filtered by price range and model, with pagination
func (r *GormCatalogRepository) FindProductsByCategory(categoryID uint, filter domain.ProductFilter, limit, offset int) ([]domain.Product, int64, error) {
	var subIDs []uint
	if err := r.db.Model(&domain.Category{}).Where("parent_id = ?", categoryID).Pluck("id", &subIDs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find subcategories: %w", err)
	}
	// A leaf category lists its own products
	ids := append(subIDs, categoryID)

	query := r.db.Model(&domain.Product{}).Where("category_id IN ?", ids)

	if filter.PriceMin > 0 {
		query = query.Where("price - price * discount / 100 >= ?", filter.PriceMin)
	}
	if filter.PriceMax > 0 {
		query = query.Where("price - price * discount / 100 <= ?", filter.PriceMax)
	}
	if filter.ModelSlug != "" {
		query = query.Joins("JOIN product_models ON product_models.id = products.model_id").
			Where("product_models.slug = ?", filter.ModelSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []domain.Product
	err := query.Preload("Model").
		Order("products.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products by category: %w", err)
	}
	return products, total, nil
}

// FindProductsByModel lists products sharing a model line
func (r *GormCatalogRepository) FindProductsByModel(modelID uint) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.Where("model_id = ?", modelID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by model: %w", err)
	}
	return products, nil
}

// FindRelatedProducts lists products from the same category family,
// excluding the product itself
func (r *GormCatalogRepository) FindRelatedProducts(product *domain.Product) ([]domain.Product, error) {
	var category domain.Category
	if err := r.db.First(&category, product.CategoryID).Error; err != nil {
		return nil, fmt.Errorf("failed to find product category: %w", err)
	}

	query := r.db.Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.id <> ?", product.ID)
	if category.ParentID != nil {
		query = query.Where("categories.parent_id = ?", *category.ParentID)
	} else {
		query = query.Where("categories.parent_id = ?", category.ID)
	}

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}
	return products, nil
}

// SearchProducts matches product titles case-insensitively
func (r *GormCatalogRepository) SearchProducts(query string, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Where("title ILIKE ?", "%"+query+"%").
		Limit(limit).Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// ToggleFavorite flips the favorite mark for (user, product) in one transaction
func (r *GormCatalogRepository) ToggleFavorite(userID, productID uint) (bool, error) {
	var favorited bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var fav domain.FavoriteProduct
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&fav).Error
		if err == nil {
			favorited = false
			return tx.Delete(&fav).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		favorited = true
		return tx.Create(&domain.FavoriteProduct{UserID: userID, ProductID: productID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return favorited, nil
}

// FindFavorites lists a user's favorite products, newest first
func (r *GormCatalogRepository) FindFavorites(userID uint) ([]domain.FavoriteProduct, error) {
	var favorites []domain.FavoriteProduct
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	return favorites, nil
}

// IsFavorite reports whether a product is favorited by a user
func (r *GormCatalogRepository) IsFavorite(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.FavoriteProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
