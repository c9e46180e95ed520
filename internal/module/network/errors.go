package network

import "errors"

// Module errors.
var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrDuplicateRequest   = errors.New("request already pending")
	ErrSelfRequest        = errors.New("cannot raise a request against yourself")
	ErrUnknownKind        = errors.New("unknown request kind")
	ErrKindNotImplemented = errors.New("request kind not implemented")
	ErrNotTarget          = errors.New("only the request target may resolve it")
	ErrStartupRequired    = errors.New("request kind requires a startup")
	ErrStartupNotAllowed  = errors.New("request kind does not carry a startup")
	ErrNotStartupMember   = errors.New("requester is not a member of the startup")
)
