package source

import "errors"

// Sentinel kinds for slate source errors.
var (
	ErrLoadSlate           = errors.New("load slate failed")
	ErrScheduleUnreachable = errors.New("schedule unreachable")
	ErrScheduleMismatch    = errors.New("schedule did not contain a full slate")
)
