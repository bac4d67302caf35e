// Package apperr holds the sentinel errors shared across promptboard packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFolder     = errors.New("folder missing or is not a folder")
	ErrNoCapacity    = errors.New("no view capacity")
	ErrNotConfirmed  = errors.New("not confirmed")
	ErrDisabled      = errors.New("disabled")
)
