package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/digital-market/internal/checkout/domain"
)

// RedisPendingStore keeps pending checkouts in Redis with a TTL
type RedisPendingStore struct {
	client *redis.Client
}

// NewRedisPendingStore creates a new Redis-backed pending checkout store
func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{client: client}
}

func pendingKey(customerID uint) string {
	return fmt.Sprintf("checkout:pending:%d", customerID)
}

// Put stashes the pending checkout, replacing any previous one for the
// same customer
func (s *RedisPendingStore) Put(ctx context.Context, customerID uint, pending *domain.PendingCheckout, ttl time.Duration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending checkout: %w", err)
	}
	if err := s.client.Set(ctx, pendingKey(customerID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to stash pending checkout: %w", err)
	}
	return nil
}

// Consume reads and deletes the pending checkout in one round trip, so only
// the first callback for a checkout ever sees it
func (s *RedisPendingStore) Consume(ctx context.Context, customerID uint) (*domain.PendingCheckout, error) {
	payload, err := s.client.GetDel(ctx, pendingKey(customerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCheckoutExpired
		}
		return nil, fmt.Errorf("failed to consume pending checkout: %w", err)
	}

	var pending domain.PendingCheckout
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending checkout: %w", err)
	}
	return &pending, nil
}
