package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrSettled       = errors.New("operation already settled")
	ErrCacheMiss     = errors.New("cache miss")
	ErrLockHeld      = errors.New("lock already held")
)
