package domain

import "errors"

// ErrInvalidInput marks form input rejected before any remote call.
var ErrInvalidInput = errors.New("invalid input")
