// Package store provides an interface for inventory storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reservation status values. A reservation starts as reserved and moves
// exactly once, to confirmed or released.
const (
	StatusReserved  = "reserved"
	StatusConfirmed = "confirmed"
	StatusReleased  = "released"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Price         int64
	StockQuantity int32
	Version       int32
	CreatedAt     *time.Time
}

type CreateProductParams struct {
	Name          string
	Price         int64
	StockQuantity int32
}

type FindProductsParams struct {
	Offset int32
	Limit  int32
}

type Reservation struct {
	ID        uuid.UUID
	Status    string
	ExpiresAt time.Time
	Items     []ReservationItem
}

type ReservationItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

// Shortage names one line a reserve could not satisfy.
type Shortage struct {
	ProductID uuid.UUID
	Requested int32
	Available int32
}

// InventoryStore is an interface for product and reservation storage operations.
type InventoryStore interface {
	CreateProduct(ctx context.Context, params *CreateProductParams) (*Product, error)
	FindProducts(ctx context.Context, params *FindProductsParams) (*[]Product, error)
	// FindProductByID returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Reserve debits stock for every item, or for none of them. On a shortfall
	// it returns the full shortage list and no stock is held.
	Reserve(ctx context.Context, items []ReservationItem, ttl time.Duration) (*Reservation, []Shortage, error)

	// Confirm moves a reservation from reserved to confirmed.
	// Returns ErrReservationExpired if the reservation is past its TTL or was
	// already released; the sweeper may have re-stocked it.
	Confirm(ctx context.Context, id uuid.UUID) error

	// Release re-stocks a reserved reservation. Releasing an already released
	// or confirmed reservation is a no-op.
	Release(ctx context.Context, id uuid.UUID) error

	// ReleaseExpired re-stocks up to batchSize expired reservations and
	// reports how many it released.
	ReleaseExpired(ctx context.Context, batchSize int32) (int, error)
}
