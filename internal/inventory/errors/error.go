// Package errors provides sentinel errors for inventory operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrInsufficientStock = errors.New("insufficient stock")

var ErrReservationNotFound = errors.New("reservation not found")
// ErrReservationExpired also covers confirm attempts on released reservations:
// in both cases the stock is no longer held.
var ErrReservationExpired = errors.New("reservation expired or no longer held")

var ErrCreateProduct = errors.New("failed to create product")
var ErrFailedToFindProduct = errors.New("failed to find product")
var ErrFailedToFindProducts = errors.New("failed to find products")
var ErrCreateReservation = errors.New("failed to create reservation")
var ErrUpdateReservation = errors.New("failed to update reservation")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
