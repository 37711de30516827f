package kafka

import "time"

// OrderPlacedEvent announces a successfully paid order
type OrderPlacedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    uint      `json:"order_id"`
	CustomerID uint      `json:"customer_id"`
	TotalPrice int       `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	Currency   string    `json:"currency"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPlaced = "order.placed"
)

// Kafka topics
const (
	TopicOrderPlaced = "order-placed"
)
