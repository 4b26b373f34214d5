package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrAlreadyProcessed   = errors.New("order already processed")
	ErrAlreadyEntitled    = errors.New("vip already active")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
