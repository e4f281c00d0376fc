// Package service implements the order creation orchestration.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ordererrors "github.com/ecomworks/orderflow/internal/order/errors"
	"github.com/ecomworks/orderflow/internal/order/store"
	"github.com/ecomworks/orderflow/pkg/messaging"
	"github.com/ecomworks/orderflow/pkg/messaging/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/google/uuid"
)

var (
	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderflow_orders_created_total",
		Help: "Total number of created orders.",
	})
	stockCompensationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderflow_stock_compensations_total",
		Help: "Total number of compensating stock releases grouped by result.",
	}, []string{"result"})
)

// Payment methods accepted on order creation.
const (
	PaymentCash         = "cash"
	PaymentCreditCard   = "credit_card"
	PaymentWireTransfer = "wire_transfer"
)

// OrderService defines the methods for managing orders.
// It abstracts the underlying business logic and data access.
type OrderService interface {
	// FindByID retrieves a single order with its lines.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*OrderDto, error)

	// FindAll returns a page of orders. Returns an empty slice if no orders exist.
	FindAll(ctx context.Context, offset, limit int32) (*[]OrderDto, error)

	// Create runs the order creation orchestration: customer check, stock
	// reservation, transactional persistence of header plus lines, reservation
	// confirm, event publication. Each retry creates a new order; there is no
	// deduplication key.
	Create(ctx context.Context, order OrderCreateDto) (*OrderDto, error)
}

// Service implements OrderService.
type Service struct {
	orderStore       store.OrderStore
	customers        CustomerDirectory
	inventory        InventoryClient
	publisher        messaging.Publisher
	inventoryTimeout time.Duration
}

// NewService creates a new order service. All collaborators are passed in
// explicitly; there is no ambient registry.
func NewService(orderStore store.OrderStore, customers CustomerDirectory, inventory InventoryClient, publisher messaging.Publisher, inventoryTimeout time.Duration) *Service {
	return &Service{
		orderStore:       orderStore,
		customers:        customers,
		inventory:        inventory,
		publisher:        publisher,
		inventoryTimeout: inventoryTimeout,
	}
}

// OrderDto represents the data transfer object for an order.
type OrderDto struct {
	ID            uuid.UUID      `json:"id"`
	Reference     string         `json:"reference"`
	PaymentMethod string         `json:"payment_method"`
	CustomerID    uuid.UUID      `json:"customer_id"`
	TotalAmount   int64          `json:"total_amount"`
	CreatedAt     string         `json:"created_at"`
	Lines         []OrderLineDto `json:"lines,omitempty"`
}

type OrderLineDto struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

// OrderCreateDto represents the data transfer object for creating a new order.
type OrderCreateDto struct {
	CustomerID    uuid.UUID            `json:"customer_id" validate:"required"`
	Reference     string               `json:"reference" validate:"required"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=cash credit_card wire_transfer"`
	Products      []ProductQuantityDto `json:"products" validate:"required,gt=0,dive"`
}

type ProductQuantityDto struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,min=1"`
}

// FindByID retrieves an order by its ID and returns it as an OrderDto.
// Returns ErrOrderNotFound if no order exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*OrderDto, error) {
	order, lines, err := s.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDto(order, lines), nil
}

// FindAll retrieves a page of orders without their lines.
func (s *Service) FindAll(ctx context.Context, offset, limit int32) (*[]OrderDto, error) {
	orders, err := s.orderStore.FindAll(ctx, &store.FindOrdersParams{Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	orderDtos := make([]OrderDto, len(*orders))
	for i, order := range *orders {
		orderDtos[i] = *toDto(&order, nil)
	}
	return &orderDtos, nil
}

// Create executes the create-order sequence. The steps run strictly in order:
// each depends on the result of the one before it.
//
// The two remote calls cannot join the local transaction, so a persistence
// failure after a successful reservation is compensated with a Release call.
// If that release fails too, the error surfaces as ErrStockReleaseFailed so
// the reservation can be reconciled instead of leaking silently.
func (s *Service) Create(ctx context.Context, order OrderCreateDto) (*OrderDto, error) {

	// Step 1: the customer must exist at the moment of the check.
	exists, err := s.customers.Exists(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if !exists {
		slog.WarnContext(ctx, "Customer not found", "customer_id", order.CustomerID)
		return nil, ordererrors.ErrCustomerNotFound
	}

	// Step 2: reserve all products in one call. The inventory service holds
	// the all-or-nothing guarantee; a timeout fails closed and the unconfirmed
	// reservation is re-stocked by its TTL.
	items := make([]ReserveItem, 0, len(order.Products))
	for _, p := range order.Products {
		items = append(items, ReserveItem{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	reserveCtx, cancel := context.WithTimeout(ctx, s.inventoryTimeout)
	defer cancel()
	reservation, err := s.inventory.Reserve(reserveCtx, items)
	if err != nil {
		slog.WarnContext(ctx, "Inventory reservation rejected", "error", err)
		return nil, err
	}

	// Steps 3-4: header and lines in one local transaction, lines in the
	// order the caller listed them.
	lines := make([]store.CreateOrderLineParams, 0, len(order.Products))
	for i, p := range order.Products {
		lines = append(lines, store.CreateOrderLineParams{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			LineNo:    int32(i),
		})
	}
	orderParams := store.CreateOrderParams{
		Reference:     order.Reference,
		PaymentMethod: order.PaymentMethod,
		CustomerID:    order.CustomerID,
		// TotalAmount stays zero until the payment step prices the order.
	}
	createdOrder, createdLines, err := s.orderStore.CreateOrder(ctx, &orderParams, &lines)
	if err != nil {
		return nil, s.compensate(ctx, reservation.ID, err)
	}

	// Step 5: promote the reservation to a permanent debit.
	if err := s.inventory.Confirm(ctx, reservation.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to confirm reservation after order commit",
			"order_id", createdOrder.ID, "reservation_id", reservation.ID, "error", err)
		return nil, fmt.Errorf("order %s, reservation %s: %w", createdOrder.ID, reservation.ID, ordererrors.ErrReservationNotConfirmed)
	}

	event := events.OrderCreatedEvent{
		OrderID:     createdOrder.ID,
		CustomerID:  createdOrder.CustomerID,
		Reference:   createdOrder.Reference,
		TotalAmount: createdOrder.TotalAmount,
		CreatedAt:   *createdOrder.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Best effort; order creation already succeeded.
		slog.ErrorContext(ctx, "Failed to publish OrderCreatedEvent", "order_id", createdOrder.ID, "error", err)
	}
	ordersCreatedTotal.Inc()

	return toDto(createdOrder, createdLines), nil
}

// compensate undoes the stock reservation after a persistence failure.
func (s *Service) compensate(ctx context.Context, reservationID uuid.UUID, cause error) error {
	if relErr := s.inventory.Release(ctx, reservationID); relErr != nil {
		stockCompensationsTotal.WithLabelValues("failed").Inc()
		slog.ErrorContext(ctx, "Compensating stock release failed",
			"reservation_id", reservationID, "cause", cause, "error", relErr)
		return fmt.Errorf("reservation %s (cause: %v): %w", reservationID, cause, ordererrors.ErrStockReleaseFailed)
	}
	stockCompensationsTotal.WithLabelValues("released").Inc()
	slog.WarnContext(ctx, "Order persistence failed, reservation released",
		"reservation_id", reservationID, "cause", cause)
	return cause
}

// toDto converts a store.Order to an OrderDto.
func toDto(order *store.Order, lines *[]store.OrderLine) *OrderDto {
	if order == nil {
		return nil
	}

	var lineDtos []OrderLineDto
	if lines != nil {
		lineDtos = make([]OrderLineDto, 0, len(*lines))
		for _, line := range *lines {
			lineDtos = append(lineDtos, OrderLineDto{
				ID:        line.ID,
				OrderID:   line.OrderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
	}

	return &OrderDto{
		ID:            order.ID,
		Reference:     order.Reference,
		PaymentMethod: order.PaymentMethod,
		CustomerID:    order.CustomerID,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
		Lines:         lineDtos,
	}
}
