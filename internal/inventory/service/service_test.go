package service

import (
	"context"
	"testing"
	"time"

	inventoryerrors "github.com/ecomworks/orderflow/internal/inventory/errors"
	"github.com/ecomworks/orderflow/internal/inventory/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInventoryStore is a mock implementation of the InventoryStore interface.
type mockInventoryStore struct {
	product     *store.Product
	products    *[]store.Product
	reservation *store.Reservation
	shortages   []store.Shortage
	error       error

	reserveTTL time.Duration
}

func (m *mockInventoryStore) CreateProduct(_ context.Context, _ *store.CreateProductParams) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryStore) FindProducts(_ context.Context, _ *store.FindProductsParams) (*[]store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockInventoryStore) FindProductByID(_ context.Context, _ uuid.UUID) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryStore) Reserve(_ context.Context, _ []store.ReservationItem, ttl time.Duration) (*store.Reservation, []store.Shortage, error) {
	m.reserveTTL = ttl
	if m.error != nil {
		return nil, m.shortages, m.error
	}
	return m.reservation, nil, nil
}

func (m *mockInventoryStore) Confirm(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func (m *mockInventoryStore) Release(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func (m *mockInventoryStore) ReleaseExpired(_ context.Context, _ int32) (int, error) {
	return 0, m.error
}

func Test_InventoryService_Reserve(t *testing.T) {
	reservationID := uuid.New()
	productID := uuid.New()
	expiresAt := time.Now().Add(time.Minute)

	testCases := []struct {
		name          string
		mockStore     *mockInventoryStore
		expectError   error
		wantShortages int
	}{
		{
			name: "Success - stock reserved",
			mockStore: &mockInventoryStore{
				reservation: &store.Reservation{ID: reservationID, Status: store.StatusReserved, ExpiresAt: expiresAt},
			},
		},
		{
			name: "Error - shortfall carries shortage detail",
			mockStore: &mockInventoryStore{
				shortages: []store.Shortage{{ProductID: productID, Requested: 5, Available: 2}},
				error:     inventoryerrors.ErrInsufficientStock,
			},
			expectError:   inventoryerrors.ErrInsufficientStock,
			wantShortages: 1,
		},
		{
			name:        "Error - store failure without shortages",
			mockStore:   &mockInventoryStore{error: inventoryerrors.ErrCreateReservation},
			expectError: inventoryerrors.ErrCreateReservation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore, 10*time.Minute)
			// when
			reservation, shortages, err := service.Reserve(context.Background(), []ReserveItemDto{{ProductID: productID, Quantity: 5}})
			// then
			assert.Equal(t, 10*time.Minute, tc.mockStore.reserveTTL, "Configured TTL must reach the store")
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, reservation)
				require.Len(t, shortages, tc.wantShortages)
				if tc.wantShortages > 0 {
					assert.Equal(t, productID, shortages[0].ProductID)
					assert.Equal(t, int32(2), shortages[0].Available)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reservationID, reservation.ID)
			assert.Equal(t, store.StatusReserved, reservation.Status)
			assert.Equal(t, expiresAt, reservation.ExpiresAt)
		})
	}
}

func Test_InventoryService_ConfirmAndRelease(t *testing.T) {
	id := uuid.New()

	t.Run("confirm passes through", func(t *testing.T) {
		service := NewService(&mockInventoryStore{}, time.Minute)
		assert.NoError(t, service.Confirm(context.Background(), id))
	})
	t.Run("confirm surfaces expiry", func(t *testing.T) {
		service := NewService(&mockInventoryStore{error: inventoryerrors.ErrReservationExpired}, time.Minute)
		assert.ErrorIs(t, service.Confirm(context.Background(), id), inventoryerrors.ErrReservationExpired)
	})
	t.Run("release surfaces not found", func(t *testing.T) {
		service := NewService(&mockInventoryStore{error: inventoryerrors.ErrReservationNotFound}, time.Minute)
		assert.ErrorIs(t, service.Release(context.Background(), id), inventoryerrors.ErrReservationNotFound)
	})
}

func Test_InventoryService_Products(t *testing.T) {
	productID := uuid.New()
	createdAt := time.Now()
	product := &store.Product{ID: productID, Name: "Widget", Price: 1500, StockQuantity: 7, Version: 1, CreatedAt: &createdAt}

	t.Run("find by id maps to dto", func(t *testing.T) {
		service := NewService(&mockInventoryStore{product: product}, time.Minute)

		found, err := service.FindProductByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, found.ID)
		assert.Equal(t, int32(7), found.StockQuantity)
		assert.Equal(t, createdAt.Format(time.RFC3339), found.CreatedAt)
	})
	t.Run("find by id not found", func(t *testing.T) {
		service := NewService(&mockInventoryStore{error: inventoryerrors.ErrProductNotFound}, time.Minute)

		_, err := service.FindProductByID(context.Background(), productID)

		assert.ErrorIs(t, err, inventoryerrors.ErrProductNotFound)
	})
	t.Run("list maps every product", func(t *testing.T) {
		service := NewService(&mockInventoryStore{products: &[]store.Product{*product, *product}}, time.Minute)

		list, err := service.FindProducts(context.Background(), 0, 10)

		require.NoError(t, err)
		assert.Len(t, *list, 2)
	})
}
