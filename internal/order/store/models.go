package store

import (
	"time"

	"github.com/google/uuid"
)

// Order is the order header row. TotalAmount is kept in minor currency units
// and stays zero until the payment step prices the order.
type Order struct {
	ID            uuid.UUID
	Reference     string
	PaymentMethod string
	CustomerID    uuid.UUID
	TotalAmount   int64
	CreatedAt     *time.Time
}

// OrderLine is one product-quantity entry of an order. LineNo preserves the
// position the caller listed the product at.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	LineNo    int32
	CreatedAt *time.Time
}

type CreateOrderParams struct {
	Reference     string
	PaymentMethod string
	CustomerID    uuid.UUID
	TotalAmount   int64
}

type CreateOrderLineParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	LineNo    int32
}

type FindOrdersParams struct {
	Offset int32
	Limit  int32
}
