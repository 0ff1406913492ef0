package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrInvalidSchedule     = errors.New("invalid schedule time")
	ErrStatusConflict      = errors.New("order status changed concurrently")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrInvalidTransition   = errors.New("status change not allowed")
	ErrInvalidStatus       = errors.New("unknown order status")
	ErrInvalidQuery        = errors.New("invalid listing query")
	ErrInvalidRole         = errors.New("unknown role")
)
