package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// Confirmation resend failures. The messages are safe to show to clients.
var (
	ErrConfigurationDisabled = errors.New("set AUTO_ACTIVATE_NEW_USERS to false to use the resend-confirmation route")
	ErrAccountNotFound       = errors.New("Account does not exist.")
	ErrAccountAlreadyActive  = errors.New("Account already activated.")
	ErrEmailDisabled         = errors.New("SMTP settings unavailable")
	ErrDeliveryFailure       = errors.New("could not deliver confirmation email")
	ErrThrottled             = errors.New("confirmation was resent recently; try again later")
)
