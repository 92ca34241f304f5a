package local

import "errors"

// ErrNotFound is returned when no snapshot has been saved yet
var ErrNotFound = errors.New("state not found")
