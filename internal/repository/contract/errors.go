package contract

import "errors"

// ErrDuplicateKey is returned by Create when the natural key already exists.
var ErrDuplicateKey = errors.New("record already exists")

// ErrNotFound is returned by updates addressed to a record that does not exist.
// Finders report a miss as (nil, nil) instead.
var ErrNotFound = errors.New("record not found")
