package service

import "errors"

// Service failures map one-to-one onto HTTP statuses at the handler boundary
// (401, 404, 409).
var (
	ErrConflict          = errors.New("resource already exists")
	ErrUnauthorized      = errors.New("invalid username or password")
	ErrNotFound          = errors.New("resource not found")
	ErrInsufficientStock = errors.New("not enough copies available")
	ErrAlreadyReturned   = errors.New("record already returned")
)
