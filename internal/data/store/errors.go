package store

import "errors"

// ErrRecordNotFound is returned by record backends for an unknown id.
var ErrRecordNotFound = errors.New("record not found")

// ErrInvalidRecord means a stored record could not be decoded.
var ErrInvalidRecord = errors.New("invalid data file format")
