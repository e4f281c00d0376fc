package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	inventoryerrors "github.com/ecomworks/orderflow/internal/inventory/errors"
	"github.com/ecomworks/orderflow/internal/inventory/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInventoryService is a mock implementation of the InventoryService interface
type mockInventoryService struct {
	product     *service.ProductDto
	products    []service.ProductDto
	reservation *service.ReservationDto
	shortages   []service.ShortageDto
	error       error
}

func (m *mockInventoryService) CreateProduct(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) FindProducts(_ context.Context, _, _ int32) (*[]service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &m.products, nil
}

func (m *mockInventoryService) FindProductByID(_ context.Context, _ uuid.UUID) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) Reserve(_ context.Context, _ []service.ReserveItemDto) (*service.ReservationDto, []service.ShortageDto, error) {
	if m.error != nil {
		return nil, m.shortages, m.error
	}
	return m.reservation, nil, nil
}

func (m *mockInventoryService) Confirm(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func (m *mockInventoryService) Release(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func Test_InventoryAPI_Reserve(t *testing.T) {
	reservationID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	productID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174002")
	expiresAt := time.Now().Add(time.Minute).UTC()

	validBody := toJSON(t, map[string]any{
		"items": []service.ReserveItemDto{{ProductID: productID, Quantity: 3}},
	})

	testCases := []struct {
		name         string
		mockService  mockInventoryService
		body         string
		expectedCode int
		check        func(t *testing.T, body string)
	}{
		{
			name: "Success - stock reserved",
			mockService: mockInventoryService{
				reservation: &service.ReservationDto{ID: reservationID, Status: "reserved", ExpiresAt: expiresAt},
			},
			body:         validBody,
			expectedCode: http.StatusCreated,
			check: func(t *testing.T, body string) {
				var dto service.ReservationDto
				require.NoError(t, json.Unmarshal([]byte(body), &dto))
				assert.Equal(t, reservationID, dto.ID)
				assert.Equal(t, "reserved", dto.Status)
			},
		},
		{
			name: "Error - shortfall answers 409 with shortages",
			mockService: mockInventoryService{
				shortages: []service.ShortageDto{{ProductID: productID, Requested: 3, Available: 1}},
				error:     inventoryerrors.ErrInsufficientStock,
			},
			body:         validBody,
			expectedCode: http.StatusConflict,
			check: func(t *testing.T, body string) {
				var resp struct {
					Error     string                `json:"error"`
					Shortages []service.ShortageDto `json:"shortages"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				require.Len(t, resp.Shortages, 1)
				assert.Equal(t, productID, resp.Shortages[0].ProductID)
				assert.Equal(t, int32(1), resp.Shortages[0].Available)
			},
		},
		{
			name:         "Error - malformed JSON",
			mockService:  mockInventoryService{},
			body:         "{not-json",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - empty item list fails validation",
			mockService:  mockInventoryService{},
			body:         toJSON(t, map[string]any{"items": []service.ReserveItemDto{}}),
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - service error",
			mockService:  mockInventoryService{error: inventoryerrors.ErrCreateReservation},
			body:         validBody,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Reserve(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.check != nil {
				tc.check(t, rr.Body.String())
			}
		})
	}
}

func Test_InventoryAPI_ConfirmAndRelease(t *testing.T) {
	reservationID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")

	testCases := []struct {
		name         string
		action       string
		mockService  mockInventoryService
		expectedCode int
	}{
		{name: "Confirm - success answers 204", action: "confirm", mockService: mockInventoryService{}, expectedCode: http.StatusNoContent},
		{name: "Release - success answers 204", action: "release", mockService: mockInventoryService{}, expectedCode: http.StatusNoContent},
		{name: "Confirm - unknown reservation answers 404", action: "confirm", mockService: mockInventoryService{error: inventoryerrors.ErrReservationNotFound}, expectedCode: http.StatusNotFound},
		{name: "Confirm - expired reservation answers 409", action: "confirm", mockService: mockInventoryService{error: inventoryerrors.ErrReservationExpired}, expectedCode: http.StatusConflict},
		{name: "Release - store failure answers 500", action: "release", mockService: mockInventoryService{error: inventoryerrors.ErrUpdateReservation}, expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/"+reservationID.String()+"/"+tc.action, nil)
			req.SetPathValue("id", reservationID.String())
			rr := httptest.NewRecorder()

			// when
			if tc.action == "confirm" {
				api.Confirm(rr, req)
			} else {
				api.Release(rr, req)
			}

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}

func Test_InventoryAPI_FindProductByID(t *testing.T) {
	productID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174002")
	createdAt := time.Now()

	testCases := []struct {
		name         string
		mockService  mockInventoryService
		id           string
		expectedCode int
	}{
		{
			name: "Success - product found",
			mockService: mockInventoryService{
				product: &service.ProductDto{ID: productID, Name: "Widget", Price: 1500, StockQuantity: 7, Version: 1, CreatedAt: createdAt.Format(time.RFC3339)},
			},
			id:           productID.String(),
			expectedCode: http.StatusOK,
		},
		{
			name:         "Error - invalid id",
			mockService:  mockInventoryService{},
			id:           "not-a-uuid",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - product not found",
			mockService:  mockInventoryService{error: inventoryerrors.ErrProductNotFound},
			id:           productID.String(),
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			rr := httptest.NewRecorder()

			// when
			api.FindProductByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}
