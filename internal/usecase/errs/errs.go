// Package errs holds the sentinel error values shared between the
// usecase layer and infrastructure packages. Keeping them in a leaf
// package lets infrastructure wrap them without importing usecase.
package errs

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
