package interfaces

import "errors"

// ErrNotFound and ErrAlreadyExists classify storage and service failures so
// transport code can map them with errors.Is instead of matching message
// text. Stores and services wrap them with %w and a record-specific message.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
