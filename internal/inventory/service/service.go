// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecomworks/orderflow/internal/inventory/store"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "orderflow_reservations_total",
	Help: "Total number of reservation transitions grouped by outcome.",
}, []string{"outcome"})

// InventoryService defines the methods for managing products and reservations.
type InventoryService interface {
	CreateProduct(ctx context.Context, product ProductCreateDto) (*ProductDto, error)
	FindProducts(ctx context.Context, offset, limit int32) (*[]ProductDto, error)
	// FindProductByID returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// Reserve debits stock for all items or none. On a shortfall it returns
	// the shortage list together with ErrInsufficientStock.
	Reserve(ctx context.Context, items []ReserveItemDto) (*ReservationDto, []ShortageDto, error)

	// Confirm makes a reservation's debit permanent.
	Confirm(ctx context.Context, id uuid.UUID) error

	// Release re-stocks a reserved reservation.
	Release(ctx context.Context, id uuid.UUID) error
}

// Service implements InventoryService.
type Service struct {
	inventoryStore store.InventoryStore
	reservationTTL time.Duration
}

// NewService creates a new inventory service. reservationTTL bounds how long
// an unconfirmed reservation may hold stock.
func NewService(inventoryStore store.InventoryStore, reservationTTL time.Duration) *Service {
	return &Service{
		inventoryStore: inventoryStore,
		reservationTTL: reservationTTL,
	}
}

type ProductDto struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	StockQuantity int32     `json:"stock_quantity"`
	Version       int32     `json:"version"`
	CreatedAt     string    `json:"created_at"`
}

type ProductCreateDto struct {
	Name          string `json:"name" validate:"required"`
	Price         int64  `json:"price" validate:"min=0"`
	StockQuantity int32  `json:"stock_quantity" validate:"min=0"`
}

type ReserveItemDto struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,min=1"`
}

type ReservationDto struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ShortageDto struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int32     `json:"requested"`
	Available int32     `json:"available"`
}

func (s *Service) CreateProduct(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	created, err := s.inventoryStore.CreateProduct(ctx, &store.CreateProductParams{
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		return nil, err
	}
	return toProductDto(created), nil
}

func (s *Service) FindProducts(ctx context.Context, offset, limit int32) (*[]ProductDto, error) {
	products, err := s.inventoryStore.FindProducts(ctx, &store.FindProductsParams{Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDto, len(*products))
	for i, p := range *products {
		dtos[i] = *toProductDto(&p)
	}
	return &dtos, nil
}

func (s *Service) FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	found, err := s.inventoryStore.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDto(found), nil
}

func (s *Service) Reserve(ctx context.Context, items []ReserveItemDto) (*ReservationDto, []ShortageDto, error) {
	storeItems := make([]store.ReservationItem, 0, len(items))
	for _, item := range items {
		storeItems = append(storeItems, store.ReservationItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	reservation, shortages, err := s.inventoryStore.Reserve(ctx, storeItems, s.reservationTTL)
	if err != nil {
		if len(shortages) > 0 {
			reservationsTotal.WithLabelValues("rejected").Inc()
			shortageDtos := make([]ShortageDto, 0, len(shortages))
			for _, sh := range shortages {
				shortageDtos = append(shortageDtos, ShortageDto{ProductID: sh.ProductID, Requested: sh.Requested, Available: sh.Available})
			}
			return nil, shortageDtos, err
		}
		return nil, nil, err
	}

	reservationsTotal.WithLabelValues("reserved").Inc()
	slog.InfoContext(ctx, "Stock reserved",
		"reservation_id", reservation.ID, "items", len(items), "expires_at", reservation.ExpiresAt)
	return &ReservationDto{ID: reservation.ID, Status: reservation.Status, ExpiresAt: reservation.ExpiresAt}, nil, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	if err := s.inventoryStore.Confirm(ctx, id); err != nil {
		return err
	}
	reservationsTotal.WithLabelValues("confirmed").Inc()
	return nil
}

func (s *Service) Release(ctx context.Context, id uuid.UUID) error {
	if err := s.inventoryStore.Release(ctx, id); err != nil {
		return err
	}
	reservationsTotal.WithLabelValues("released").Inc()
	return nil
}

func toProductDto(p *store.Product) *ProductDto {
	if p == nil {
		return nil
	}
	return &ProductDto{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
