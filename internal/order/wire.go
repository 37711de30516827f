//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	customerdomain "github.com/tair/digital-market/internal/customer/domain"
	customerrepository "github.com/tair/digital-market/internal/customer/repository"
	"github.com/tair/digital-market/internal/order/delivery/http"
	"github.com/tair/digital-market/internal/order/domain"
	"github.com/tair/digital-market/internal/order/repository"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideCustomerRepository provides the customer repository used for token resolution
func ProvideCustomerRepository(db *gorm.DB) customerdomain.CustomerRepository {
	return customerrepository.NewGormCustomerRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideCustomerRepository,
)

// InitializeHTTPHandler initializes the order HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewOrderHandler,
	)
	return nil, nil
}
