package service

import "errors"

var (
	// ErrValidation marks rejected input; handlers map it to 400.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both absent resources and resources owned by another
	// user, so a caller can never probe for other users' projects.
	ErrNotFound = errors.New("not found")
)
