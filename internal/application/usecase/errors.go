package usecase

import "errors"

// ErrInvalidRequest is returned when a request fails shape validation.
var ErrInvalidRequest = errors.New("invalid request")
