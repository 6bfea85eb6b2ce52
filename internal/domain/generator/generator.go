// Package generator expands a selection set into every matching column.
package generator

import (
	"context"
	"fmt"

	"github.com/okian/toto/internal/domain/model"
)

// DefaultCutoff is the number of columns a player can still usefully
// inspect or pay for.
const DefaultCutoff = 20000

// overflowFactor scales the cutoff into the hard abort limit.
const overflowFactor = 2

// Generator computes the cartesian product of a SelectionSet.
type Generator struct {
	cutoff int
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{cutoff: DefaultCutoff}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Cutoff returns the configured cutoff.
func (g *Generator) Cutoff() int { return g.cutoff }

// Limit returns the largest product Generate will materialise.
func (g *Generator) Limit() int { return g.cutoff * overflowFactor }

// Generate expands sel match by match. Columns come out in lexicographic
// order over each match's marking order, so identical input always yields
// identical output.
func (g *Generator) Generate(ctx context.Context, sel model.SelectionSet) ([]model.Combination, error) {
	if m := sel.FirstEmpty(); m != 0 {
		return nil, &IncompleteSelectionError{Match: m}
	}

	limit := g.Limit()
	// Partial columns share a fixed-size array; unfilled tail positions are
	// overwritten as expansion proceeds.
	combos := []model.Combination{{}}
	for i, syms := range sel {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		size := len(combos) * len(syms)
		if size > limit {
			return nil, &OverflowError{Match: i + 1, Size: size, Limit: limit}
		}
		next := make([]model.Combination, 0, size)
		for _, c := range combos {
			for _, sym := range syms {
				c[i] = sym
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos, nil
}

// Count returns the number of columns sel expands to, without
// materialising them. It saturates at limit+1 so callers can compare
// against Limit safely.
func (g *Generator) Count(sel model.SelectionSet) int {
	limit := g.Limit()
	n := 1
	for _, syms := range sel {
		n *= len(syms)
		if n > limit {
			return limit + 1
		}
	}
	return n
}
