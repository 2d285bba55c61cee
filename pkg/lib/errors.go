package lib

import "errors"

var (
	// ErrNotFound is returned when an operation or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an operation with the same ID is already tracked.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
)
