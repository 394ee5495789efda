package services

import "errors"

// Workflow errors surfaced to callers. Ledger-level errors
// (repos.ErrInsufficientStock, repos.ErrInvariant) pass through unwrapped so
// the boundary can match on them too.
var (
	ErrBadCreds          = errors.New("invalid email or password")
	ErrEmailTaken        = errors.New("email already registered")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("order is in a final status")
)
