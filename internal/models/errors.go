package models

import "errors"

// Lifecycle error taxonomy. Handlers map these to HTTP status codes,
// everything else is treated as a backend failure.
var (
	ErrInvalidTransition = errors.New("status transition not permitted from current state")
	ErrAlreadyModerated  = errors.New("item has already been moderated")
	ErrNotAuthorized     = errors.New("caller is not permitted to perform this action")
)
