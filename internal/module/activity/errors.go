package activity

import "errors"

// Module errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrInvalidKind      = errors.New("invalid activity kind")
)
