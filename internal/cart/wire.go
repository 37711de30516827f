//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/digital-market/internal/cart/delivery/http"
	"github.com/tair/digital-market/internal/cart/domain"
	"github.com/tair/digital-market/internal/cart/repository"
	catalogdomain "github.com/tair/digital-market/internal/catalog/domain"
	catalogrepository "github.com/tair/digital-market/internal/catalog/repository"
	customerdomain "github.com/tair/digital-market/internal/customer/domain"
	customerrepository "github.com/tair/digital-market/internal/customer/repository"
)

// ProvideCartRepository provides the cart repository
func ProvideCartRepository(db *gorm.DB) domain.CartRepository {
	return repository.NewGormCartRepository(db)
}

// ProvideCatalogRepository provides the catalog repository used for stock checks
func ProvideCatalogRepository(db *gorm.DB) catalogdomain.CatalogRepository {
	return catalogrepository.NewGormCatalogRepository(db)
}

// ProvideCustomerRepository provides the customer repository used for token resolution
func ProvideCustomerRepository(db *gorm.DB) customerdomain.CustomerRepository {
	return customerrepository.NewGormCustomerRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCartRepository,
	ProvideCatalogRepository,
	ProvideCustomerRepository,
)

// InitializeHTTPHandler initializes the cart HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.CartHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewCartHandler,
	)
	return nil, nil
}
