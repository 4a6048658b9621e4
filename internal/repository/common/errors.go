package common

import "errors"

// Errors shared by all repositories. Each repository declares its own
// sentinels wrapping these, so callers can match either the specific
// error or the whole class.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
)
