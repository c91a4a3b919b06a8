package entity

import "errors"

// Standard domain errors
var (
	ErrInternalServer     = errors.New("an internal error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters")
	ErrResourceNotFound   = errors.New("the requested resource was not found")
	ErrConflict           = errors.New("the resource already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyCompletion    = errors.New("completion returned no answer")
	ErrArchiveDisabled    = errors.New("chat archive is not configured")
)
