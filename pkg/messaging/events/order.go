// Package events defines the event payloads exchanged between services.
package events

import (
	"encoding/json"
	"time"

	"github.com/ecomworks/orderflow/pkg/messaging"
	"github.com/google/uuid"
)

// OrderCreatedEvent is published after an order and its lines have been committed.
// TotalAmount stays zero until the payment step prices the order.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Reference   string    `json:"reference"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func (o OrderCreatedEvent) Subject() string {
	return messaging.OrdersCreatedSubject
}

func (o OrderCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
