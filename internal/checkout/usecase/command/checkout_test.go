package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/tair/digital-market/internal/cart/domain"
	cartquery "github.com/tair/digital-market/internal/cart/usecase/query"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
	"github.com/tair/digital-market/internal/checkout/domain"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
	ordercommand "github.com/tair/digital-market/internal/order/usecase/command"
	"github.com/tair/digital-market/kafka"
)

type memoryPendingStore struct {
	stash map[uint]*domain.PendingCheckout
}

var _ domain.PendingStore = &memoryPendingStore{}

func newMemoryPendingStore() *memoryPendingStore {
	return &memoryPendingStore{stash: make(map[uint]*domain.PendingCheckout)}
}

func (s *memoryPendingStore) Put(ctx context.Context, customerID uint, pending *domain.PendingCheckout, ttl time.Duration) error {
	s.stash[customerID] = pending
	return nil
}

func (s *memoryPendingStore) Consume(ctx context.Context, customerID uint) (*domain.PendingCheckout, error) {
	pending, ok := s.stash[customerID]
	if !ok {
		return nil, domain.ErrCheckoutExpired
	}
	delete(s.stash, customerID)
	return pending, nil
}

type fakeProvider struct {
	requests []domain.SessionRequest
	fail     bool
}

var _ domain.PaymentProvider = &fakeProvider{}

func (p *fakeProvider) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.Session, error) {
	if p.fail {
		return nil, domain.ErrProviderFailure
	}
	p.requests = append(p.requests, req)
	return &domain.Session{
		Reference:   req.Reference,
		RedirectURL: "https://pay.example.com/" + req.Reference,
	}, nil
}

type stubCartRepository struct {
	cart  *cartdomain.Cart
	items []cartdomain.CartItem
}

var _ cartdomain.CartRepository = &stubCartRepository{}

func (s *stubCartRepository) Create(c *cartdomain.Cart) error { return nil }

func (s *stubCartRepository) FindByCustomerID(customerID uint) (*cartdomain.Cart, error) {
	if s.cart == nil || s.cart.CustomerID != customerID {
		return nil, cartdomain.ErrCartNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepository) Items(cartID uint) ([]cartdomain.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepository) FindItem(cartID, productID uint) (*cartdomain.CartItem, error) {
	return nil, cartdomain.ErrItemNotFound
}

func (s *stubCartRepository) SaveItem(item *cartdomain.CartItem) error   { return nil }
func (s *stubCartRepository) DeleteItem(item *cartdomain.CartItem) error { return nil }
func (s *stubCartRepository) ClearItems(cartID uint) error               { return nil }

func (s *stubCartRepository) InTx(fn func(cartdomain.CartRepository) error) error {
	return fn(s)
}

type recordingOrderRepository struct {
	placed    []*orderdomain.Order
	completed []uint
}

var _ orderdomain.OrderRepository = &recordingOrderRepository{}

func (m *recordingOrderRepository) Place(delivery *orderdomain.Delivery, order *orderdomain.Order, items []orderdomain.OrderItem) error {
	delivery.ID = uint(len(m.placed) + 1)
	order.ID = uint(len(m.placed) + 1)
	order.DeliveryID = delivery.ID
	m.placed = append(m.placed, order)
	return nil
}

func (m *recordingOrderRepository) FindByID(id uint) (*orderdomain.Order, error) {
	return nil, orderdomain.ErrNotFound
}

func (m *recordingOrderRepository) FindByCustomerID(customerID uint, limit, offset int) ([]orderdomain.Order, error) {
	return nil, nil
}

func (m *recordingOrderRepository) MarkCompleted(id uint) error {
	m.completed = append(m.completed, id)
	return nil
}

type recordingPublisher struct {
	events []kafka.OrderPlacedEvent
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func checkoutDelivery() orderdomain.DeliveryForm {
	return orderdomain.DeliveryForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+100200300",
		Region:    "London",
		City:      "London",
		Address:   "12 St James Square",
	}
}

func filledCart() *stubCartRepository {
	return &stubCartRepository{
		cart: &cartdomain.Cart{ID: 3, CustomerID: 7},
		items: []cartdomain.CartItem{
			{CartID: 3, ProductID: 42, Quantity: 2, Product: catalog.Product{
				ID: 42, Title: "iPhone 15", Slug: "iphone-15", Price: 1000, Discount: 10,
			}},
		},
	}
}

func TestInitiatePayment(t *testing.T) {
	carts := filledCart()
	provider := &fakeProvider{}
	pending := newMemoryPendingStore()
	handler := NewInitiatePaymentHandler(cartquery.NewGetCartHandler(carts), provider, pending, 30*time.Minute, "USD")

	result, err := handler.Handle(context.Background(), InitiatePaymentCommand{
		CustomerID: 7,
		Delivery:   checkoutDelivery(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionRef)
	assert.Contains(t, result.RedirectURL, result.SessionRef)

	require.Len(t, provider.requests, 1)
	// 2 * 900, in minor units
	assert.Equal(t, 180000, provider.requests[0].Amount)
	assert.Equal(t, "USD", provider.requests[0].Currency)
	assert.Contains(t, provider.requests[0].Description, "iPhone 15")

	stashed, ok := pending.stash[7]
	require.True(t, ok)
	assert.Equal(t, result.SessionRef, stashed.SessionRef)
	assert.Equal(t, "Ada", stashed.Delivery.FirstName)
}

func TestInitiatePaymentConfiguredCurrency(t *testing.T) {
	provider := &fakeProvider{}
	pending := newMemoryPendingStore()
	handler := NewInitiatePaymentHandler(cartquery.NewGetCartHandler(filledCart()), provider, pending, 30*time.Minute, "AED")

	_, err := handler.Handle(context.Background(), InitiatePaymentCommand{
		CustomerID: 7,
		Delivery:   checkoutDelivery(),
	})
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, "AED", provider.requests[0].Currency)

	// An explicit command currency still wins over the configured one
	_, err = handler.Handle(context.Background(), InitiatePaymentCommand{
		CustomerID: 7,
		Delivery:   checkoutDelivery(),
		Currency:   "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", provider.requests[1].Currency)
}

func TestInitiatePaymentEmptyCart(t *testing.T) {
	carts := &stubCartRepository{cart: &cartdomain.Cart{ID: 3, CustomerID: 7}}
	pending := newMemoryPendingStore()
	handler := NewInitiatePaymentHandler(cartquery.NewGetCartHandler(carts), &fakeProvider{}, pending, 30*time.Minute, "USD")

	_, err := handler.Handle(context.Background(), InitiatePaymentCommand{
		CustomerID: 7,
		Delivery:   checkoutDelivery(),
	})
	assert.ErrorIs(t, err, orderdomain.ErrEmptyCart)
	assert.Empty(t, pending.stash)
}

func TestInitiatePaymentProviderFailure(t *testing.T) {
	pending := newMemoryPendingStore()
	handler := NewInitiatePaymentHandler(cartquery.NewGetCartHandler(filledCart()), &fakeProvider{fail: true}, pending, 30*time.Minute, "USD")

	_, err := handler.Handle(context.Background(), InitiatePaymentCommand{
		CustomerID: 7,
		Delivery:   checkoutDelivery(),
	})
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Empty(t, pending.stash, "nothing is stashed when the provider rejects the session")
}

func TestConfirmPayment(t *testing.T) {
	carts := filledCart()
	orders := &recordingOrderRepository{}
	pending := newMemoryPendingStore()
	publisher := &recordingPublisher{}

	pending.stash[7] = &domain.PendingCheckout{
		CustomerID: 7,
		SessionRef: "ref-1",
		Delivery:   checkoutDelivery(),
		CreatedAt:  time.Now(),
	}

	placeOrder := ordercommand.NewPlaceOrderHandler(orders, carts)
	handler := NewConfirmPaymentHandler(pending, placeOrder, orders, publisher)

	order, err := handler.Handle(context.Background(), ConfirmPaymentCommand{CustomerID: 7})
	require.NoError(t, err)

	assert.True(t, order.Completed)
	assert.Equal(t, 1800, order.Price)
	require.Len(t, orders.placed, 1)
	assert.Equal(t, []uint{order.ID}, orders.completed)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, order.ID, publisher.events[0].OrderID)
	assert.Equal(t, 1800, publisher.events[0].TotalPrice)

	t.Run("Duplicate callback places no second order", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), ConfirmPaymentCommand{CustomerID: 7})
		assert.ErrorIs(t, err, domain.ErrCheckoutExpired)
		assert.Len(t, orders.placed, 1)
		assert.Len(t, publisher.events, 1)
	})
}

func TestConfirmPaymentWithoutStash(t *testing.T) {
	placeOrder := ordercommand.NewPlaceOrderHandler(&recordingOrderRepository{}, filledCart())
	handler := NewConfirmPaymentHandler(newMemoryPendingStore(), placeOrder, &recordingOrderRepository{}, nil)

	_, err := handler.Handle(context.Background(), ConfirmPaymentCommand{CustomerID: 7})
	assert.ErrorIs(t, err, domain.ErrCheckoutExpired)
}
