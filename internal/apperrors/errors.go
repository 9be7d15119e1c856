package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidMoney indicates a monetary amount that is not a finite number.
var ErrInvalidMoney = errors.New("invalid money amount")

// ErrCurrencyMismatch indicates arithmetic between different currencies,
// or a currency code that does not resolve through the registry.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvoiceCurrencyMismatch indicates an attempt to attach a line, discount
// or tax whose currency differs from the invoice's currency.
var ErrInvoiceCurrencyMismatch = errors.New("invoice currency mismatch")

// ErrInvalidQuantity indicates a non-positive invoice line quantity.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInvalidInvoiceLine indicates a blank or over-length line description.
var ErrInvalidInvoiceLine = errors.New("invalid invoice line")

// ErrInvoiceOperation indicates an illegal invoice state transition, a blank
// idempotency key, or a terminal-state replay with a different key.
var ErrInvoiceOperation = errors.New("invalid invoice operation")

// ErrNegativeMoney indicates a computed invoice total that is negative.
var ErrNegativeMoney = errors.New("negative money amount")
