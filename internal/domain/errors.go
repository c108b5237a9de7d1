package domain

import "errors"

// Error taxonomy shared by repositories, the authorization engine and the
// HTTP layer. Handlers translate these to status codes in one place.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("not enough permissions")
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrConflict        = errors.New("already exists")
)
