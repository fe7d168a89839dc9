package helper

import "errors"

// Business failures surfaced to handlers. Handlers translate these into
// envelope responses; anything else is an internal error.
var (
	ErrNotFound              = errors.New("record not found")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrInvariantViolation    = errors.New("inventory invariant violated")
	ErrNotRefundable         = errors.New("only paid tickets can be refunded")
	ErrRefundWindowExpired   = errors.New("refund period has expired")
	ErrDuplicateActiveTicket = errors.New("buyer already holds an active ticket for this event")
	ErrSignatureInvalid      = errors.New("webhook signature invalid")
)
