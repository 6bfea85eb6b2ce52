package table

import "errors"

// Sentinel kinds for table errors.
var (
	ErrInvalidTable = errors.New("invalid table")
	ErrWrite        = errors.New("table write failed")
)
