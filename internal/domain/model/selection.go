package model

import (
	"fmt"
	"strings"
)

// SelectionSet holds the admissible symbols for every match, index 0 being
// match 1. Symbols keep the order in which they were marked; that order
// drives the order of generated columns.
type SelectionSet [SlateSize][]Symbol

// NewSelectionSet builds a SelectionSet from per-match symbol lists.
// Duplicates are dropped, keeping the first mark. Missing trailing matches
// stay empty and are reported later by Validate.
func NewSelectionSet(picks [][]Symbol) (SelectionSet, error) {
	var s SelectionSet
	if len(picks) > SlateSize {
		return s, fmt.Errorf("%w: want %d matches, got %d", ErrInvalidPicks, SlateSize, len(picks))
	}
	for i, syms := range picks {
		for _, sym := range syms {
			if !sym.Valid() {
				return s, fmt.Errorf("%w: match %d: %w", ErrInvalidPicks, i+1, ErrInvalidSymbol)
			}
			s.Mark(i+1, sym)
		}
	}
	return s, nil
}

// SelectionSetFromStrings is NewSelectionSet for textual symbols.
func SelectionSetFromStrings(picks [][]string) (SelectionSet, error) {
	var s SelectionSet
	if len(picks) > SlateSize {
		return s, fmt.Errorf("%w: want %d matches, got %d", ErrInvalidPicks, SlateSize, len(picks))
	}
	for i, raw := range picks {
		for _, r := range raw {
			sym, err := ParseSymbol(strings.TrimSpace(r))
			if err != nil {
				return s, fmt.Errorf("%w: match %d: %w", ErrInvalidPicks, i+1, err)
			}
			s.Mark(i+1, sym)
		}
	}
	return s, nil
}

// ParsePicks parses the compact coupon notation: 15 whitespace separated
// tokens, each listing the admissible symbols of one match, e.g.
// "1 10 2 102 ...". A token of "-" marks a match with no selection.
func ParsePicks(s string) (SelectionSet, error) {
	var sel SelectionSet
	tokens := strings.Fields(s)
	if len(tokens) != SlateSize {
		return sel, fmt.Errorf("%w: want %d matches, got %d", ErrInvalidPicks, SlateSize, len(tokens))
	}
	for i, tok := range tokens {
		if tok == "-" {
			continue
		}
		for _, r := range tok {
			sym, err := parseSymbolRune(r)
			if err != nil {
				return sel, fmt.Errorf("%w: match %d: %w", ErrInvalidPicks, i+1, err)
			}
			sel.Mark(i+1, sym)
		}
	}
	return sel, nil
}

// Mark adds sym to the 1-based match unless it is already selected.
func (s *SelectionSet) Mark(match int, sym Symbol) {
	if match < 1 || match > SlateSize {
		return
	}
	for _, have := range s[match-1] {
		if have == sym {
			return
		}
	}
	s[match-1] = append(s[match-1], sym)
}

// Symbols returns the admissible symbols for the 1-based match.
func (s SelectionSet) Symbols(match int) []Symbol {
	if match < 1 || match > SlateSize {
		return nil
	}
	return s[match-1]
}

// FirstEmpty returns the first 1-based match with no admissible symbol, or 0.
func (s SelectionSet) FirstEmpty() int {
	for i, syms := range s {
		if len(syms) == 0 {
			return i + 1
		}
	}
	return 0
}

// OpenMatches counts matches with more than one admissible symbol.
func (s SelectionSet) OpenMatches() int {
	n := 0
	for _, syms := range s {
		if len(syms) > 1 {
			n++
		}
	}
	return n
}

// String renders the selection in the notation accepted by ParsePicks.
func (s SelectionSet) String() string {
	tokens := make([]string, SlateSize)
	for i, syms := range s {
		if len(syms) == 0 {
			tokens[i] = "-"
			continue
		}
		var b strings.Builder
		for _, sym := range syms {
			b.WriteString(sym.String())
		}
		tokens[i] = b.String()
	}
	return strings.Join(tokens, " ")
}
