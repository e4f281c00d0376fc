package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ordererrors "github.com/ecomworks/orderflow/internal/order/errors"
	"github.com/google/uuid"
)

// CustomerDirectory is the read-only contract to the customer service.
type CustomerDirectory interface {
	// Exists reports whether a customer with the given ID is known to the directory.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// InventoryClient is the contract to the inventory service. Reserve is
// all-or-nothing across the whole item list; a reservation stays debited
// until it is confirmed, released, or its TTL expires.
type InventoryClient interface {
	Reserve(ctx context.Context, items []ReserveItem) (*Reservation, error)
	Confirm(ctx context.Context, reservationID uuid.UUID) error
	Release(ctx context.Context, reservationID uuid.UUID) error
}

type ReserveItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type Reservation struct {
	ID        uuid.UUID `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StockShortage names one line the inventory could not satisfy.
type StockShortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int32     `json:"requested"`
	Available int32     `json:"available"`
}

// InsufficientStockError carries the per-line shortage detail so the caller
// can see which product fell short and by how much.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("product %s. Available: %d, Requested: %d", s.ProductID, s.Available, s.Requested))
	}
	return fmt.Sprintf("%s: %s", ordererrors.ErrInsufficientStock, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Unwrap() error {
	return ordererrors.ErrInsufficientStock
}
