package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidSymbol         = errors.New("invalid symbol")
	ErrInvalidPicks          = errors.New("invalid picks")
	ErrInvalidOfficialResult = errors.New("invalid official result")
)
