package startup

import "errors"

// Module errors.
var (
	ErrStartupNotFound   = errors.New("startup not found")
	ErrNameTaken         = errors.New("startup name already exists")
	ErrMemberNotFound    = errors.New("member not found")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrInvalidRole       = errors.New("invalid member role")
	ErrNotOwner          = errors.New("only the owner may do this")
	ErrCannotRemoveOwner = errors.New("cannot remove the startup owner")
)
