// Package service provides the implementation of customer directory business logic.
package service

import (
	"context"
	"time"

	"github.com/ecomworks/orderflow/internal/customer/store"
	"github.com/google/uuid"
)

// CustomerService defines the methods for managing customer records.
type CustomerService interface {
	// Create adds a new customer and returns it with the assigned ID.
	Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error)

	// Update applies a partial update. Only fields present in the patch are
	// touched; absent fields keep their stored values.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	Update(ctx context.Context, patch CustomerUpdateDto) (*CustomerDto, error)

	// FindAll returns a page of customers.
	FindAll(ctx context.Context, offset, limit int32) (*[]CustomerDto, error)

	// FindByID retrieves a single customer.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerDto, error)

	// Delete removes a customer record.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements CustomerService.
type Service struct {
	customerStore store.CustomerStore
}

// NewService creates a new instance of CustomerService with the provided store.
func NewService(customerStore store.CustomerStore) *Service {
	return &Service{customerStore: customerStore}
}

// CustomerDto represents the data transfer object for a customer.
type CustomerDto struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	ZipCode     string    `json:"zip_code"`
	CreatedAt   string    `json:"created_at"`
}

type CustomerCreateDto struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	ZipCode     string `json:"zip_code"`
}

// CustomerUpdateDto is a field-wise patch: a nil pointer means "leave as is",
// a non-nil pointer carries the new value (including an explicit empty string).
type CustomerUpdateDto struct {
	ID          uuid.UUID `json:"-"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Street      *string   `json:"street"`
	HouseNumber *string   `json:"house_number"`
	ZipCode     *string   `json:"zip_code"`
}

func (s *Service) Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error) {
	created, err := s.customerStore.Create(ctx, &store.CreateCustomerParams{
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Street:      customer.Street,
		HouseNumber: customer.HouseNumber,
		ZipCode:     customer.ZipCode,
	})
	if err != nil {
		return nil, err
	}
	return toDto(created), nil
}

func (s *Service) Update(ctx context.Context, patch CustomerUpdateDto) (*CustomerDto, error) {
	existing, err := s.customerStore.FindByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	applyPatch(existing, &patch)

	updated, err := s.customerStore.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	return toDto(updated), nil
}

func (s *Service) FindAll(ctx context.Context, offset, limit int32) (*[]CustomerDto, error) {
	customers, err := s.customerStore.FindAll(ctx, &store.FindCustomersParams{Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDto, len(*customers))
	for i, c := range *customers {
		dtos[i] = *toDto(&c)
	}
	return &dtos, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*CustomerDto, error) {
	found, err := s.customerStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDto(found), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerStore.Delete(ctx, id)
}

func applyPatch(c *store.Customer, patch *CustomerUpdateDto) {
	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Street != nil {
		c.Street = *patch.Street
	}
	if patch.HouseNumber != nil {
		c.HouseNumber = *patch.HouseNumber
	}
	if patch.ZipCode != nil {
		c.ZipCode = *patch.ZipCode
	}
}

func toDto(c *store.Customer) *CustomerDto {
	if c == nil {
		return nil
	}
	return &CustomerDto{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Street:      c.Street,
		HouseNumber: c.HouseNumber,
		ZipCode:     c.ZipCode,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
