// Package store provides an interface for order storage operations.
package store

import (
	"context"

	"github.com/google/uuid"
)

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// FindByID retrieves a single order with its lines, in caller order.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, *[]OrderLine, error)

	// FindAll returns a page of orders. Returns an empty slice if no orders exist.
	FindAll(ctx context.Context, params *FindOrdersParams) (*[]Order, error)

	// CreateOrder persists the header and all lines in a single transaction:
	// either all rows exist afterwards or none do.
	CreateOrder(ctx context.Context, orderParams *CreateOrderParams, lines *[]CreateOrderLineParams) (*Order, *[]OrderLine, error)
}
