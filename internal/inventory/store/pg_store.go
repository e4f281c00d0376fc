package store

import (
	"context"
	"errors"
	"sort"
	"time"

	inventoryerrors "github.com/ecomworks/orderflow/internal/inventory/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertProduct = `INSERT INTO products (name, price, stock_quantity)
VALUES ($1, $2, $3)
RETURNING id, name, price, stock_quantity, version, created_at`

const findProductByID = `SELECT id, name, price, stock_quantity, version, created_at
FROM products WHERE id = $1`

const findAllProducts = `SELECT id, name, price, stock_quantity, version, created_at
FROM products ORDER BY created_at DESC OFFSET $1 LIMIT $2`

const lockProductStock = `SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`

const debitProductStock = `UPDATE products
SET stock_quantity = stock_quantity - $2, version = version + 1
WHERE id = $1`

const insertReservation = `INSERT INTO reservations (status, expires_at)
VALUES ($1, $2)
RETURNING id`

const insertReservationItem = `INSERT INTO reservation_items (reservation_id, product_id, quantity)
VALUES ($1, $2, $3)`

const lockReservation = `SELECT status, expires_at FROM reservations WHERE id = $1 FOR UPDATE`

const setReservationStatus = `UPDATE reservations SET status = $2 WHERE id = $1`

const restockReservation = `UPDATE products p
SET stock_quantity = p.stock_quantity + ri.quantity, version = p.version + 1
FROM reservation_items ri
WHERE ri.reservation_id = $1 AND p.id = ri.product_id`

const lockExpiredReservations = `SELECT id FROM reservations
WHERE status = 'reserved' AND expires_at < now()
ORDER BY expires_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

// errShortfall aborts the reserve transaction; the shortage detail travels
// through the closure, not the error.
var errShortfall = errors.New("stock shortfall")

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of InventoryStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) CreateProduct(ctx context.Context, params *CreateProductParams) (*Product, error) {
	pr, err := scanProduct(p.db.QueryRow(ctx, insertProduct, params.Name, params.Price, params.StockQuantity))
	if err != nil {
		return nil, inventoryerrors.ErrCreateProduct
	}
	return pr, nil
}

func (p *PgStore) FindProducts(ctx context.Context, params *FindProductsParams) (*[]Product, error) {
	rows, err := p.db.Query(ctx, findAllProducts, params.Offset, params.Limit)
	if err != nil {
		return nil, inventoryerrors.ErrFailedToFindProducts
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var pr Product
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Price, &pr.StockQuantity, &pr.Version, &pr.CreatedAt); err != nil {
			return nil, inventoryerrors.ErrFailedToFindProducts
		}
		products = append(products, pr)
	}
	if rows.Err() != nil {
		return nil, inventoryerrors.ErrFailedToFindProducts
	}
	return &products, nil
}

func (p *PgStore) FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	pr, err := scanProduct(p.db.QueryRow(ctx, findProductByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventoryerrors.ErrProductNotFound
		}
		return nil, inventoryerrors.ErrFailedToFindProduct
	}
	return pr, nil
}

func (p *PgStore) Reserve(ctx context.Context, items []ReservationItem, ttl time.Duration) (*Reservation, []Shortage, error) {
	// Lock products in a deterministic order so concurrent reserves cannot deadlock.
	sorted := make([]ReservationItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	var reservation *Reservation
	var shortages []Shortage

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		// Check every line before debiting any: a partial reserve must not survive.
		for _, item := range sorted {
			var available int32
			err := tx.QueryRow(ctx, lockProductStock, item.ProductID).Scan(&available)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					shortages = append(shortages, Shortage{ProductID: item.ProductID, Requested: item.Quantity, Available: 0})
					continue
				}
				return inventoryerrors.ErrCreateReservation
			}
			if available < item.Quantity {
				shortages = append(shortages, Shortage{ProductID: item.ProductID, Requested: item.Quantity, Available: available})
			}
		}
		if len(shortages) > 0 {
			return errShortfall
		}

		for _, item := range sorted {
			if _, err := tx.Exec(ctx, debitProductStock, item.ProductID, item.Quantity); err != nil {
				return inventoryerrors.ErrCreateReservation
			}
		}

		expiresAt := time.Now().Add(ttl)
		var id uuid.UUID
		if err := tx.QueryRow(ctx, insertReservation, StatusReserved, expiresAt).Scan(&id); err != nil {
			return inventoryerrors.ErrCreateReservation
		}
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertReservationItem, id, item.ProductID, item.Quantity); err != nil {
				return inventoryerrors.ErrCreateReservation
			}
		}
		reservation = &Reservation{ID: id, Status: StatusReserved, ExpiresAt: expiresAt, Items: items}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errShortfall) {
			return nil, shortages, inventoryerrors.ErrInsufficientStock
		}
		return nil, nil, txErr
	}
	return reservation, nil, nil
}

func (p *PgStore) Confirm(ctx context.Context, id uuid.UUID) error {
	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		status, expiresAt, err := lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		switch {
		case status == StatusConfirmed:
			return nil
		case status == StatusReleased:
			return inventoryerrors.ErrReservationExpired
		case time.Now().After(expiresAt):
			return inventoryerrors.ErrReservationExpired
		}
		if _, err := tx.Exec(ctx, setReservationStatus, id, StatusConfirmed); err != nil {
			return inventoryerrors.ErrUpdateReservation
		}
		return nil
	})
}

func (p *PgStore) Release(ctx context.Context, id uuid.UUID) error {
	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		status, _, err := lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if status != StatusReserved {
			// Already confirmed or released; nothing is held anymore.
			return nil
		}
		return releaseLocked(ctx, tx, id)
	})
}

func (p *PgStore) ReleaseExpired(ctx context.Context, batchSize int32) (int, error) {
	released := 0
	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, lockExpiredReservations, batchSize)
		if err != nil {
			return inventoryerrors.ErrUpdateReservation
		}
		ids := make([]uuid.UUID, 0, batchSize)
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return inventoryerrors.ErrUpdateReservation
			}
			ids = append(ids, id)
		}
		rows.Close()
		if rows.Err() != nil {
			return inventoryerrors.ErrUpdateReservation
		}

		for _, id := range ids {
			if err := releaseLocked(ctx, tx, id); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return released, nil
}

func releaseLocked(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, restockReservation, id); err != nil {
		return inventoryerrors.ErrUpdateReservation
	}
	if _, err := tx.Exec(ctx, setReservationStatus, id, StatusReleased); err != nil {
		return inventoryerrors.ErrUpdateReservation
	}
	return nil
}

func lockRow(ctx context.Context, tx pgx.Tx, id uuid.UUID) (string, time.Time, error) {
	var status string
	var expiresAt time.Time
	err := tx.QueryRow(ctx, lockReservation, id).Scan(&status, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, inventoryerrors.ErrReservationNotFound
		}
		return "", time.Time{}, inventoryerrors.ErrUpdateReservation
	}
	return status, expiresAt, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var pr Product
	if err := row.Scan(&pr.ID, &pr.Name, &pr.Price, &pr.StockQuantity, &pr.Version, &pr.CreatedAt); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return inventoryerrors.ErrTransactionBegin
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return inventoryerrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return inventoryerrors.ErrTransactionCommit
	}

	return nil
}
