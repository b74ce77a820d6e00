package repos

import "errors"

// Operation errors surfaced to services/handlers. Constraint failures are
// detected via conditional writes (RowsAffected == 0) rather than by
// parsing driver error strings.
var (
	ErrDuplicate         = errors.New("duplicate row")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBadTransition     = errors.New("illegal status transition")
	ErrOrderClosed       = errors.New("order already closed")
	ErrOrderNotCompleted = errors.New("order not completed")
	ErrFarmerMismatch    = errors.New("product does not belong to farmer")
	ErrUnavailable       = errors.New("product unavailable")
	ErrBelowMinQty       = errors.New("quantity below minimum order")
)
