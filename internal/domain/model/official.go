package model

import (
	"fmt"
	"strings"
)

// OfficialResult is the published outcome of every match on the slate.
type OfficialResult [SlateSize]Symbol

// ParseOfficialResult parses a whitespace separated list of exactly 15
// tokens, each "0", "1" or "2".
func ParseOfficialResult(s string) (OfficialResult, error) {
	c, err := parseVector(s, ErrInvalidOfficialResult)
	return OfficialResult(c), err
}

// String renders the result space separated.
func (o OfficialResult) String() string { return Combination(o).String() }

// MarshalText implements encoding.TextMarshaler.
func (o OfficialResult) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// parseVector parses 15 whitespace separated symbols, reporting failures
// under the given error kind.
func parseVector(s string, kind error) (Combination, error) {
	var c Combination
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return c, fmt.Errorf("%w: empty input", kind)
	}
	if len(tokens) != SlateSize {
		return c, fmt.Errorf("%w: want %d symbols, got %d", kind, SlateSize, len(tokens))
	}
	for i, tok := range tokens {
		sym, err := ParseSymbol(tok)
		if err != nil {
			return c, fmt.Errorf("%w: match %d: %q is not 0, 1 or 2", kind, i+1, tok)
		}
		c[i] = sym
	}
	return c, nil
}
