// Package model contains the slate domain types shared by every layer.
package model

import "fmt"

// Slate layout constants.
const (
	// SlateSize is the fixed number of matches on a coupon.
	SlateSize = 15
	// Group1Size is the number of matches in the first block (matches 1-8).
	Group1Size = 8
	// Group2Size is the number of matches in the second block (matches 9-15).
	Group2Size = SlateSize - Group1Size
)

// Symbol is the outcome of a single match.
type Symbol uint8

// Outcome symbols. The numeric values match the coupon encoding.
const (
	Draw Symbol = 0
	Home Symbol = 1
	Away Symbol = 2
)

// Symbols lists every symbol in coupon column order.
var Symbols = []Symbol{Home, Draw, Away}

// ParseSymbol parses the canonical one-character form ("0", "1" or "2").
func ParseSymbol(s string) (Symbol, error) {
	switch s {
	case "0":
		return Draw, nil
	case "1":
		return Home, nil
	case "2":
		return Away, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
}

// parseSymbolRune is ParseSymbol for a single rune.
func parseSymbolRune(r rune) (Symbol, error) {
	switch r {
	case '0':
		return Draw, nil
	case '1':
		return Home, nil
	case '2':
		return Away, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, string(r))
}

// Valid reports whether s is one of the three outcomes.
func (s Symbol) Valid() bool { return s <= Away }

// String returns the canonical character for s.
func (s Symbol) String() string {
	switch s {
	case Draw:
		return "0"
	case Home:
		return "1"
	case Away:
		return "2"
	}
	return "?"
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSymbol, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(b []byte) error {
	v, err := ParseSymbol(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
