package generator

import (
	"errors"
	"fmt"
)

// Sentinel kinds for generation errors.
var (
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrGenerationOverflow  = errors.New("too many combinations")
)

// IncompleteSelectionError reports the first match with no admissible symbol.
type IncompleteSelectionError struct {
	Match int // 1-based
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("%s: select at least one option for match %d", ErrIncompleteSelection, e.Match)
}

func (e *IncompleteSelectionError) Unwrap() error { return ErrIncompleteSelection }

// OverflowError reports where expansion crossed the limit.
type OverflowError struct {
	Match int // 1-based match whose expansion crossed the limit
	Size  int // partial product size after that match
	Limit int // 2 x cutoff
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d combinations after match %d exceeds %d; reduce double/open matches",
		ErrGenerationOverflow, e.Size, e.Match, e.Limit)
}

func (e *OverflowError) Unwrap() error { return ErrGenerationOverflow }
