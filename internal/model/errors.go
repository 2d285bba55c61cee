package model

import "errors"

var (
	// ErrNotFound is returned when an operation, record or catalog entry is missing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an ID is already in use.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid stage lists, records or requests.
	ErrNotValid = errors.New("not valid")
)
