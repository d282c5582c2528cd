package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrMissingEmail          = errors.New("identity assertion has no email")
	ErrAmountTooLow          = errors.New("amount below minimum")
	ErrPaymentsNotConfigured = errors.New("recipient has not enabled payments")
	ErrInvalidSignature      = errors.New("payment signature verification failed")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrDuplicateOperation    = errors.New("duplicate operation")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrUnsupportedProvider   = errors.New("unsupported identity provider")
	ErrGatewayFailure        = errors.New("payment gateway failure")
)
