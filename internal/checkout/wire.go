//go:build wireinject
// +build wireinject

package checkout

import (
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	cartdomain "github.com/tair/digital-market/internal/cart/domain"
	cartrepository "github.com/tair/digital-market/internal/cart/repository"
	cartquery "github.com/tair/digital-market/internal/cart/usecase/query"
	"github.com/tair/digital-market/internal/checkout/delivery/http"
	"github.com/tair/digital-market/internal/checkout/domain"
	"github.com/tair/digital-market/internal/checkout/usecase/command"
	customerdomain "github.com/tair/digital-market/internal/customer/domain"
	customerrepository "github.com/tair/digital-market/internal/customer/repository"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
	orderrepository "github.com/tair/digital-market/internal/order/repository"
	ordercommand "github.com/tair/digital-market/internal/order/usecase/command"
)

// ProvideCartRepository provides the cart repository
func ProvideCartRepository(db *gorm.DB) cartdomain.CartRepository {
	return cartrepository.NewGormCartRepository(db)
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepository.NewGormOrderRepository(db)
}

// ProvideCustomerRepository provides the customer repository used for token resolution
func ProvideCustomerRepository(db *gorm.DB) customerdomain.CustomerRepository {
	return customerrepository.NewGormCustomerRepository(db)
}

// ProvideGetCartHandler provides the cart snapshot query handler
func ProvideGetCartHandler(repo cartdomain.CartRepository) *cartquery.GetCartHandler {
	return cartquery.NewGetCartHandler(repo)
}

// ProvidePlaceOrderHandler provides the order placement command handler
func ProvidePlaceOrderHandler(orders orderdomain.OrderRepository, carts cartdomain.CartRepository) *ordercommand.PlaceOrderHandler {
	return ordercommand.NewPlaceOrderHandler(orders, carts)
}

// ProvideInitiatePaymentHandler provides the payment initiation command handler
func ProvideInitiatePaymentHandler(
	cart *cartquery.GetCartHandler,
	provider domain.PaymentProvider,
	pending domain.PendingStore,
	ttl time.Duration,
	currency string,
) *command.InitiatePaymentHandler {
	return command.NewInitiatePaymentHandler(cart, provider, pending, ttl, currency)
}

// ProvideConfirmPaymentHandler provides the payment confirmation command handler
func ProvideConfirmPaymentHandler(
	pending domain.PendingStore,
	placeOrder *ordercommand.PlaceOrderHandler,
	orders orderdomain.OrderRepository,
	events command.OrderEventPublisher,
) *command.ConfirmPaymentHandler {
	return command.NewConfirmPaymentHandler(pending, placeOrder, orders, events)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCartRepository,
	ProvideOrderRepository,
	ProvideCustomerRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideGetCartHandler,
	ProvidePlaceOrderHandler,
	ProvideInitiatePaymentHandler,
	ProvideConfirmPaymentHandler,
)

// InitializeHTTPHandler initializes the checkout HTTP handler. The pending
// store, payment provider, event publisher, stash TTL and settlement
// currency come from the composition root since they are built from
// runtime configuration.
func InitializeHTTPHandler(
	db *gorm.DB,
	pending domain.PendingStore,
	provider domain.PaymentProvider,
	events command.OrderEventPublisher,
	ttl time.Duration,
	currency string,
) (*http.CheckoutHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		http.NewCheckoutHandler,
	)
	return nil, nil
}
