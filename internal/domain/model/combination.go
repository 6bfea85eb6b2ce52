package model

import (
	"fmt"
	"strings"
)

// Combination is one complete column: a symbol for every match, in slate order.
// It is a value type; copies never alias.
type Combination [SlateSize]Symbol

// Count returns how many positions hold sym.
func (c Combination) Count(sym Symbol) int {
	return c.CountIn(sym, 1, SlateSize)
}

// CountIn counts sym over the 1-based inclusive match range [from, to].
func (c Combination) CountIn(sym Symbol, from, to int) int {
	if from < 1 {
		from = 1
	}
	if to > SlateSize {
		to = SlateSize
	}
	n := 0
	for i := from - 1; i < to; i++ {
		if c[i] == sym {
			n++
		}
	}
	return n
}

// Draws returns the number of draws in the column.
func (c Combination) Draws() int { return c.Count(Draw) }

// Homes returns the number of home wins in the column.
func (c Combination) Homes() int { return c.Count(Home) }

// Aways returns the number of away wins in the column.
func (c Combination) Aways() int { return c.Count(Away) }

// Group1Draws counts draws over matches 1-8.
func (c Combination) Group1Draws() int { return c.CountIn(Draw, 1, Group1Size) }

// Group2Draws counts draws over matches 9-15.
func (c Combination) Group2Draws() int { return c.CountIn(Draw, Group1Size+1, SlateSize) }

// LongestDrawRun returns the longest streak of consecutive draws.
func (c Combination) LongestDrawRun() int {
	best, streak := 0, 0
	for _, s := range c {
		if s != Draw {
			streak = 0
			continue
		}
		streak++
		if streak > best {
			best = streak
		}
	}
	return best
}

// Fields returns the symbols as strings, one per match.
func (c Combination) Fields() []string {
	out := make([]string, SlateSize)
	for i, s := range c {
		out[i] = s.String()
	}
	return out
}

// String renders the column space separated, e.g. "1 0 2 ...".
func (c Combination) String() string {
	return strings.Join(c.Fields(), " ")
}

// MarshalText renders the column in its space separated form so JSON
// payloads stay readable.
func (c Combination) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a space separated column.
func (c *Combination) UnmarshalText(b []byte) error {
	v, err := ParseCombination(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCombination parses 15 whitespace separated symbols.
func ParseCombination(s string) (Combination, error) {
	return parseVector(s, ErrInvalidSymbol)
}

// CombinationFromFields builds a column from exactly SlateSize symbol strings.
func CombinationFromFields(fields []string) (Combination, error) {
	var c Combination
	if len(fields) != SlateSize {
		return c, fmt.Errorf("%w: want %d symbols, got %d", ErrInvalidSymbol, SlateSize, len(fields))
	}
	for i, f := range fields {
		sym, err := ParseSymbol(strings.TrimSpace(f))
		if err != nil {
			return c, fmt.Errorf("match %d: %w", i+1, err)
		}
		c[i] = sym
	}
	return c, nil
}
