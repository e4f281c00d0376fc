// Package messaging defines the event contracts shared by publishers and subscribers.
package messaging

import (
	"context"
)

const OrdersCreatedSubject = "orders.created"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
