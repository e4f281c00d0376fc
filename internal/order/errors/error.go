// Package errors provides sentinel errors for order-related operations.
package errors

import "errors"

// Business rule violations, rejected before any local mutation.
var ErrCustomerNotFound = errors.New("cannot create order: no customer exists with the provided ID")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrReservationFailed = errors.New("inventory reservation failed")

// Consistency failures after stock was already reserved. These carry enough
// context for an operator to reconcile the reservation by hand.
var ErrStockReleaseFailed = errors.New("order persistence failed and the stock reservation could not be released")
var ErrReservationNotConfirmed = errors.New("order was created but the stock reservation could not be confirmed")

var ErrOrderNotFound = errors.New("order not found")
var ErrFailedToFindOrder = errors.New("failed to find order")
var ErrFailedToFindOrders = errors.New("failed to find orders")
var ErrFailedToFindOrderLines = errors.New("failed to find order lines")

var ErrCreateOrder = errors.New("failed to create order")
var ErrCreateOrderLine = errors.New("failed to create order line")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
