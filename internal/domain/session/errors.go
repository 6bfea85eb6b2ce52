package session

import "errors"

// ErrEmptyFilteredSet is returned when a session has nothing to score or export.
var ErrEmptyFilteredSet = errors.New("nothing generated yet: generate filtered combinations first")
