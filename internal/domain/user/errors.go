package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid token")
	ErrActorNotResolved        = errors.New("caller identity could not be resolved")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeIDRequired      = errors.New("employee_id claim is required")
)
