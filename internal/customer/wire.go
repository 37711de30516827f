//go:build wireinject
// +build wireinject

package customer

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/digital-market/internal/customer/delivery/http"
	"github.com/tair/digital-market/internal/customer/domain"
	"github.com/tair/digital-market/internal/customer/repository"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
	orderrepository "github.com/tair/digital-market/internal/order/repository"
	orderquery "github.com/tair/digital-market/internal/order/usecase/query"
)

// ProvideCustomerRepository provides the customer repository
func ProvideCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return repository.NewGormCustomerRepository(db)
}

// ProvideOrderRepository provides the order repository used by the profile page
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepository.NewGormOrderRepository(db)
}

// ProvideListOrdersHandler provides the recent orders query handler
func ProvideListOrdersHandler(repo orderdomain.OrderRepository) *orderquery.ListOrdersHandler {
	return orderquery.NewListOrdersHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCustomerRepository,
	ProvideOrderRepository,
)

// InitializeHTTPHandler initializes the customer HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.CustomerHandler, error) {
	wire.Build(
		RepositorySet,
		ProvideListOrdersHandler,
		http.NewCustomerHandler,
	)
	return nil, nil
}
