package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrNoValidTargets     = errors.New("no valid species targets")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
