package user

import "errors"

// Module errors.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account not activated")
	ErrAlreadyActive         = errors.New("account already active")
	ErrAlreadyConnected      = errors.New("users already connected")
	ErrSelfConnection        = errors.New("cannot connect a user to themselves")
)
