package store

import (
	"context"
	"errors"

	ordererrors "github.com/ecomworks/orderflow/internal/order/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findOrderByID = `SELECT id, reference, payment_method, customer_id, total_amount, created_at
FROM orders WHERE id = $1`

const findOrderLinesByOrderID = `SELECT id, order_id, product_id, quantity, line_no, created_at
FROM order_lines WHERE order_id = $1 ORDER BY line_no`

const findAllOrders = `SELECT id, reference, payment_method, customer_id, total_amount, created_at
FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2`

const insertOrder = `INSERT INTO orders (reference, payment_method, customer_id, total_amount)
VALUES ($1, $2, $3, $4)
RETURNING id, reference, payment_method, customer_id, total_amount, created_at`

const insertOrderLine = `INSERT INTO order_lines (order_id, product_id, quantity, line_no)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, product_id, quantity, line_no, created_at`

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Order, *[]OrderLine, error) {
	var order *Order
	var orderLines *[]OrderLine

	// Use transaction to ensure the header and its lines are read consistently
	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		o, err := scanOrder(tx.QueryRow(ctx, findOrderByID, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ordererrors.ErrOrderNotFound
			}
			return ordererrors.ErrFailedToFindOrder
		}
		lines, err := p.findLines(ctx, tx, id)
		if err != nil {
			return ordererrors.ErrFailedToFindOrderLines
		}
		order = o
		orderLines = lines
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}

	return order, orderLines, nil
}

func (p *PgStore) FindAll(ctx context.Context, params *FindOrdersParams) (*[]Order, error) {

	// Single query, no transaction needed
	rows, err := p.db.Query(ctx, findAllOrders, params.Offset, params.Limit)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.PaymentMethod, &o.CustomerID, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, ordererrors.ErrFailedToFindOrders
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}

	return &orders, nil
}

func (p *PgStore) CreateOrder(ctx context.Context, orderParams *CreateOrderParams, lines *[]CreateOrderLineParams) (*Order, *[]OrderLine, error) {
	var createdOrder *Order
	var createdLines *[]OrderLine

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, insertOrder,
			orderParams.Reference, orderParams.PaymentMethod, orderParams.CustomerID, orderParams.TotalAmount))
		if err != nil {
			return ordererrors.ErrCreateOrder
		}
		orderLines := make([]OrderLine, 0, len(*lines))
		for _, line := range *lines {
			line.OrderID = order.ID
			var l OrderLine
			err := tx.QueryRow(ctx, insertOrderLine, line.OrderID, line.ProductID, line.Quantity, line.LineNo).
				Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.LineNo, &l.CreatedAt)
			if err != nil {
				return ordererrors.ErrCreateOrderLine
			}
			orderLines = append(orderLines, l)
		}
		createdOrder = order
		createdLines = &orderLines
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}

	return createdOrder, createdLines, nil
}

func (p *PgStore) findLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*[]OrderLine, error) {
	rows, err := tx.Query(ctx, findOrderLinesByOrderID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLine, 0)
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.LineNo, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return &lines, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(&o.ID, &o.Reference, &o.PaymentMethod, &o.CustomerID, &o.TotalAmount, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return ordererrors.ErrTransactionBegin
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ordererrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ordererrors.ErrTransactionCommit
	}

	return nil
}
