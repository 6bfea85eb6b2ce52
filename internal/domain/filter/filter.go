// Package filter applies the aggregate and positional column constraints.
package filter

import "github.com/okian/toto/internal/domain/model"

// Predicate identifies one of the column constraints.
type Predicate int

// Predicates in evaluation order.
const (
	PredicateNone Predicate = iota
	PredicateDraws
	PredicateConsecutiveDraws
	PredicateHomeWins
	PredicateAwayWins
	PredicateGroup1Draws
	PredicateGroup2Draws
)

// Predicates lists every real predicate in evaluation order.
var Predicates = []Predicate{
	PredicateDraws,
	PredicateConsecutiveDraws,
	PredicateHomeWins,
	PredicateAwayWins,
	PredicateGroup1Draws,
	PredicateGroup2Draws,
}

func (p Predicate) String() string {
	switch p {
	case PredicateNone:
		return "none"
	case PredicateDraws:
		return "draws"
	case PredicateConsecutiveDraws:
		return "consecutive_draws"
	case PredicateHomeWins:
		return "home_wins"
	case PredicateAwayWins:
		return "away_wins"
	case PredicateGroup1Draws:
		return "group1_draws"
	case PredicateGroup2Draws:
		return "group2_draws"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so rejection maps encode
// with readable keys.
func (p Predicate) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Result is the outcome of one filtering pass.
type Result struct {
	Kept       []model.Combination
	Raw        int
	Rejections map[Predicate]int // first failing predicate per rejected column
}

// Filtered returns the number of surviving columns.
func (r Result) Filtered() int { return len(r.Kept) }

// Cost prices the surviving columns.
func (r Result) Cost(unitCost float64) float64 { return float64(len(r.Kept)) * unitCost }

// Apply keeps the columns that satisfy every constraint, preserving their
// relative order. The input slice is not modified.
func Apply(combos []model.Combination, cfg Config) Result {
	res := Result{
		Kept:       make([]model.Combination, 0, len(combos)),
		Raw:        len(combos),
		Rejections: make(map[Predicate]int),
	}
	for _, c := range combos {
		if p := Check(c, cfg); p != PredicateNone {
			res.Rejections[p]++
			continue
		}
		res.Kept = append(res.Kept, c)
	}
	return res
}

// Check returns the first predicate c fails, or PredicateNone.
func Check(c model.Combination, cfg Config) Predicate {
	draws, homes, aways := 0, 0, 0
	for _, s := range c {
		switch s {
		case model.Draw:
			draws++
		case model.Home:
			homes++
		case model.Away:
			aways++
		}
	}
	switch {
	case !cfg.Draws.Contains(draws):
		return PredicateDraws
	case exceedsDrawRun(c, cfg.MaxConsecutiveDraws):
		return PredicateConsecutiveDraws
	case cfg.MaxHomeWins < UnlimitedHomeWins && homes > cfg.MaxHomeWins:
		return PredicateHomeWins
	case aways < cfg.MinAwayWins:
		return PredicateAwayWins
	case !cfg.Group1Draws.Contains(c.Group1Draws()):
		return PredicateGroup1Draws
	case !cfg.Group2Draws.Contains(c.Group2Draws()):
		return PredicateGroup2Draws
	}
	return PredicateNone
}

// exceedsDrawRun reports whether any run of draws is longer than bound.
// A run equal to bound is allowed; bound 0 forbids draws entirely.
func exceedsDrawRun(c model.Combination, bound int) bool {
	streak := 0
	for _, s := range c {
		if s != model.Draw {
			streak = 0
			continue
		}
		streak++
		if streak > bound {
			return true
		}
	}
	return false
}
