package service

import (
	"context"
	"testing"
	"time"

	customererrors "github.com/ecomworks/orderflow/internal/customer/errors"
	"github.com/ecomworks/orderflow/internal/customer/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCustomerStore is a mock implementation of the CustomerStore interface.
// Update echoes the customer it receives so tests can see exactly what the
// patch produced.
type mockCustomerStore struct {
	customer  *store.Customer
	customers *[]store.Customer
	error     error
	updated   *store.Customer
}

func (m *mockCustomerStore) Create(_ context.Context, params *store.CreateCustomerParams) (*store.Customer, error) {
	if m.error != nil {
		return nil, m.error
	}
	now := time.Now()
	return &store.Customer{
		ID:          uuid.New(),
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Street:      params.Street,
		HouseNumber: params.HouseNumber,
		ZipCode:     params.ZipCode,
		CreatedAt:   &now,
	}, nil
}

func (m *mockCustomerStore) Update(_ context.Context, customer *store.Customer) (*store.Customer, error) {
	if m.error != nil {
		return nil, m.error
	}
	m.updated = customer
	return customer, nil
}

func (m *mockCustomerStore) FindAll(_ context.Context, _ *store.FindCustomersParams) (*[]store.Customer, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customers, nil
}

func (m *mockCustomerStore) FindByID(_ context.Context, _ uuid.UUID) (*store.Customer, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerStore) Delete(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func strPtr(s string) *string { return &s }

func storedCustomer(id uuid.UUID, createdAt *time.Time) *store.Customer {
	return &store.Customer{
		ID:          id,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Street:      "Main St",
		HouseNumber: "12a",
		ZipCode:     "10115",
		CreatedAt:   createdAt,
	}
}

func Test_CustomerService_Create(t *testing.T) {
	mockStore := &mockCustomerStore{}
	service := NewService(mockStore)

	created, err := service.Create(context.Background(), CustomerCreateDto{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Street:      "Main St",
		HouseNumber: "12a",
		ZipCode:     "10115",
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ada", created.FirstName)
	assert.Equal(t, "ada@example.com", created.Email)
}

func Test_CustomerService_Update_PatchSemantics(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	createdAt := time.Now()

	testCases := []struct {
		name     string
		patch    CustomerUpdateDto
		expected store.Customer
	}{
		{
			name:  "Empty patch leaves every field untouched",
			patch: CustomerUpdateDto{ID: mockID},
			expected: store.Customer{
				ID: mockID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Street: "Main St", HouseNumber: "12a", ZipCode: "10115", CreatedAt: &createdAt,
			},
		},
		{
			name:  "Set fields overwrite, absent fields survive",
			patch: CustomerUpdateDto{ID: mockID, FirstName: strPtr("Grace"), Email: strPtr("grace@example.com")},
			expected: store.Customer{
				ID: mockID, FirstName: "Grace", LastName: "Lovelace", Email: "grace@example.com",
				Street: "Main St", HouseNumber: "12a", ZipCode: "10115", CreatedAt: &createdAt,
			},
		},
		{
			name:  "Explicit empty string clears the field",
			patch: CustomerUpdateDto{ID: mockID, Street: strPtr(""), HouseNumber: strPtr("")},
			expected: store.Customer{
				ID: mockID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Street: "", HouseNumber: "", ZipCode: "10115", CreatedAt: &createdAt,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockStore := &mockCustomerStore{customer: storedCustomer(mockID, &createdAt)}
			service := NewService(mockStore)
			// when
			updated, err := service.Update(context.Background(), tc.patch)
			// then
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, &tc.expected, mockStore.updated)
		})
	}
}

func Test_CustomerService_Update_NotFound(t *testing.T) {
	mockStore := &mockCustomerStore{error: customererrors.ErrCustomerNotFound}
	service := NewService(mockStore)

	updated, err := service.Update(context.Background(), CustomerUpdateDto{ID: uuid.New(), FirstName: strPtr("Grace")})

	assert.ErrorIs(t, err, customererrors.ErrCustomerNotFound)
	assert.Nil(t, updated)
}

func Test_CustomerService_FindByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	createdAt := time.Now()

	testCases := []struct {
		name        string
		mockStore   *mockCustomerStore
		expectError error
	}{
		{
			name:      "Success - customer found",
			mockStore: &mockCustomerStore{customer: storedCustomer(mockID, &createdAt)},
		},
		{
			name:        "Error - customer not found",
			mockStore:   &mockCustomerStore{error: customererrors.ErrCustomerNotFound},
			expectError: customererrors.ErrCustomerNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), mockID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mockID, found.ID)
			assert.Equal(t, createdAt.Format(time.RFC3339), found.CreatedAt)
		})
	}
}

func Test_CustomerService_FindAll(t *testing.T) {
	createdAt := time.Now()
	mockStore := &mockCustomerStore{customers: &[]store.Customer{
		*storedCustomer(uuid.New(), &createdAt),
		*storedCustomer(uuid.New(), &createdAt),
	}}
	service := NewService(mockStore)

	list, err := service.FindAll(context.Background(), 0, 10)

	require.NoError(t, err)
	assert.Len(t, *list, 2)
}

func Test_CustomerService_Delete(t *testing.T) {
	mockStore := &mockCustomerStore{}
	service := NewService(mockStore)

	assert.NoError(t, service.Delete(context.Background(), uuid.New()))
}
