package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ordererrors "github.com/ecomworks/orderflow/internal/order/errors"
	"github.com/ecomworks/orderflow/internal/order/service"
	"github.com/google/uuid"
)

// InventoryClient speaks to the inventory service's reservation API.
// Reserve/Confirm/Release mirror the Reserved -> Confirmed | Released
// state machine the inventory service keeps per reservation.
type InventoryClient struct {
	baseURL string
	http    *http.Client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type reserveRequest struct {
	Items []service.ReserveItem `json:"items"`
}

type reserveConflict struct {
	Error     string                  `json:"error"`
	Shortages []service.StockShortage `json:"shortages"`
}

func (c *InventoryClient) Reserve(ctx context.Context, items []service.ReserveItem) (*service.Reservation, error) {
	body, err := json.Marshal(reserveRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode reserve request: %w", err)
	}
	url := fmt.Sprintf("%s/api/v1/reservations", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build reserve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ordererrors.ErrReservationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		var reservation service.Reservation
		if err := json.NewDecoder(resp.Body).Decode(&reservation); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		return &reservation, nil
	case http.StatusConflict:
		var conflict reserveConflict
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err != nil {
			return nil, fmt.Errorf("%w: undecodable conflict detail: %v", ordererrors.ErrInsufficientStock, err)
		}
		return nil, &service.InsufficientStockError{Shortages: conflict.Shortages}
	default:
		return nil, fmt.Errorf("%w: inventory returned unexpected status %d", ordererrors.ErrReservationFailed, resp.StatusCode)
	}
}

func (c *InventoryClient) Confirm(ctx context.Context, reservationID uuid.UUID) error {
	return c.transition(ctx, reservationID, "confirm")
}

func (c *InventoryClient) Release(ctx context.Context, reservationID uuid.UUID) error {
	return c.transition(ctx, reservationID, "release")
}

func (c *InventoryClient) transition(ctx context.Context, reservationID uuid.UUID, action string) error {
	url := fmt.Sprintf("%s/api/v1/reservations/%s/%s", c.baseURL, reservationID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("inventory unreachable on %s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("inventory %s of reservation %s returned status %d", action, reservationID, resp.StatusCode)
	}
	return nil
}
