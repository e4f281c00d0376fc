// Package errors provides sentinel errors for customer-related operations.
package errors

import "errors"

var ErrCustomerNotFound = errors.New("customer not found")
var ErrFailedToFindCustomer = errors.New("failed to find customer")
var ErrFailedToFindCustomers = errors.New("failed to find customers")

var ErrCreateCustomer = errors.New("failed to create customer")
var ErrUpdateCustomer = errors.New("failed to update customer")
var ErrDeleteCustomer = errors.New("failed to delete customer")
