package store

import (
	"context"
	"errors"

	customererrors "github.com/ecomworks/orderflow/internal/customer/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertCustomer = `INSERT INTO customers (first_name, last_name, email, street, house_number, zip_code)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, first_name, last_name, email, street, house_number, zip_code, created_at`

const updateCustomer = `UPDATE customers
SET first_name = $2, last_name = $3, email = $4, street = $5, house_number = $6, zip_code = $7
WHERE id = $1
RETURNING id, first_name, last_name, email, street, house_number, zip_code, created_at`

const findCustomerByID = `SELECT id, first_name, last_name, email, street, house_number, zip_code, created_at
FROM customers WHERE id = $1`

const findAllCustomers = `SELECT id, first_name, last_name, email, street, house_number, zip_code, created_at
FROM customers ORDER BY created_at DESC OFFSET $1 LIMIT $2`

const deleteCustomer = `DELETE FROM customers WHERE id = $1`

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of CustomerStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) Create(ctx context.Context, params *CreateCustomerParams) (*Customer, error) {
	c, err := scanCustomer(p.db.QueryRow(ctx, insertCustomer,
		params.FirstName, params.LastName, params.Email, params.Street, params.HouseNumber, params.ZipCode))
	if err != nil {
		return nil, customererrors.ErrCreateCustomer
	}
	return c, nil
}

func (p *PgStore) Update(ctx context.Context, customer *Customer) (*Customer, error) {
	c, err := scanCustomer(p.db.QueryRow(ctx, updateCustomer,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
		customer.Street, customer.HouseNumber, customer.ZipCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customererrors.ErrCustomerNotFound
		}
		return nil, customererrors.ErrUpdateCustomer
	}
	return c, nil
}

func (p *PgStore) FindAll(ctx context.Context, params *FindCustomersParams) (*[]Customer, error) {
	rows, err := p.db.Query(ctx, findAllCustomers, params.Offset, params.Limit)
	if err != nil {
		return nil, customererrors.ErrFailedToFindCustomers
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Street, &c.HouseNumber, &c.ZipCode, &c.CreatedAt); err != nil {
			return nil, customererrors.ErrFailedToFindCustomers
		}
		customers = append(customers, c)
	}
	if rows.Err() != nil {
		return nil, customererrors.ErrFailedToFindCustomers
	}
	return &customers, nil
}

func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := scanCustomer(p.db.QueryRow(ctx, findCustomerByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customererrors.ErrCustomerNotFound
		}
		return nil, customererrors.ErrFailedToFindCustomer
	}
	return c, nil
}

func (p *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := p.db.Exec(ctx, deleteCustomer, id); err != nil {
		return customererrors.ErrDeleteCustomer
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Street, &c.HouseNumber, &c.ZipCode, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
