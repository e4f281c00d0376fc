// Package store provides an interface for customer storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is the directory record. The address is flattened into columns;
// there is no separate address entity.
type Customer struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Street      string
	HouseNumber string
	ZipCode     string
	CreatedAt   *time.Time
}

type CreateCustomerParams struct {
	FirstName   string
	LastName    string
	Email       string
	Street      string
	HouseNumber string
	ZipCode     string
}

type FindCustomersParams struct {
	Offset int32
	Limit  int32
}

// CustomerStore is an interface for customer storage operations.
type CustomerStore interface {
	// Create adds a new customer; the store assigns the ID.
	Create(ctx context.Context, params *CreateCustomerParams) (*Customer, error)

	// Update overwrites the mutable fields of an existing customer.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	Update(ctx context.Context, customer *Customer) (*Customer, error)

	// FindAll returns a page of customers.
	FindAll(ctx context.Context, params *FindCustomersParams) (*[]Customer, error)

	// FindByID retrieves a single customer.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// Delete removes a customer. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
