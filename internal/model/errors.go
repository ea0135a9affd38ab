package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by stores on unique constraint violations.
	ErrDuplicate = errors.New("already exists")
)
