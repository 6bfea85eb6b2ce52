// Package scoring checks columns against the official results and buckets
// them into prize tiers.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/toto/internal/domain/model"
)

// Prize tier constants.
const (
	// PrizeThreshold is the lowest correct count that pays out.
	PrizeThreshold = 12
	// Jackpot is a fully correct column.
	Jackpot = model.SlateSize

	cancelCheckInterval = 4096
)

// Option applies a configuration option to the TierScorer.
type Option func(*TierScorer)

// WithPrizeThreshold moves the lowest paying tier. Interactive scoring
// counts columns at or above it; batch scoring counts columns strictly
// above it.
func WithPrizeThreshold(n int) Option {
	return func(s *TierScorer) {
		if n > 0 && n <= Jackpot {
			s.threshold = n
		}
	}
}

// Entry is one scored column.
type Entry struct {
	Index       int               `json:"index"` // 1-based position in the scored set
	Correct     int               `json:"correct"`
	Combination model.Combination `json:"combination"`
}

// Report is the result of scoring the in-memory filtered set.
type Report struct {
	Official     model.OfficialResult     `json:"official"`
	Threshold    int                      `json:"threshold"`
	Entries      []Entry                  `json:"entries"`
	Distribution [model.SlateSize + 1]int `json:"distribution"` // columns per correct count
	Hits15       int                      `json:"hits_15"`
	Hits14       int                      `json:"hits_14"`
	Hits13       int                      `json:"hits_13"`
	Hits12       int                      `json:"hits_12"`
	Winners      []Entry                  `json:"winners"` // Correct >= Threshold, in set order
}

// BatchReport is the result of scoring columns imported from a table.
type BatchReport struct {
	Official  model.OfficialResult `json:"official"`
	Threshold int                  `json:"threshold"`
	Total     int                  `json:"total"`
	Above     int                  `json:"above"` // Correct > Threshold
	Hits13    int                  `json:"hits_13"`
	Hits14    int                  `json:"hits_14"`
	Hits15    int                  `json:"hits_15"`
	Winners   []Entry              `json:"winners"`
}

// Scorer scores column sets against an official result.
type Scorer interface {
	// Score checks the filtered set; eligibility is Correct >= threshold.
	Score(ctx context.Context, combos []model.Combination, official model.OfficialResult) (Report, error)
	// ScoreRows checks imported columns; eligibility is Correct > threshold.
	ScoreRows(ctx context.Context, combos []model.Combination, official model.OfficialResult) (BatchReport, error)
}

// TierScorer implements Scorer with exact per-position matching.
type TierScorer struct {
	threshold int
}

// NewTierScorer creates a scorer with configuration options.
func NewTierScorer(opts ...Option) *TierScorer {
	s := &TierScorer{threshold: PrizeThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the configured prize threshold.
func (s *TierScorer) Threshold() int { return s.threshold }

// CorrectCount returns how many positions of c equal the official result.
// There is no partial credit.
func CorrectCount(c model.Combination, official model.OfficialResult) int {
	n := 0
	for i := range c {
		if c[i] == official[i] {
			n++
		}
	}
	return n
}

// Score computes the correct count of every column and the tier totals.
func (s *TierScorer) Score(ctx context.Context, combos []model.Combination, official model.OfficialResult) (Report, error) {
	rep := Report{
		Official:  official,
		Threshold: s.threshold,
		Entries:   make([]Entry, 0, len(combos)),
	}
	for i, c := range combos {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Report{}, fmt.Errorf("scoring cancelled: %w", err)
			}
		}
		e := Entry{Index: i + 1, Correct: CorrectCount(c, official), Combination: c}
		rep.Entries = append(rep.Entries, e)
		rep.Distribution[e.Correct]++
		if e.Correct < s.threshold {
			continue
		}
		switch e.Correct {
		case 15:
			rep.Hits15++
		case 14:
			rep.Hits14++
		case 13:
			rep.Hits13++
		case 12:
			rep.Hits12++
		}
		rep.Winners = append(rep.Winners, e)
	}
	return rep, nil
}

// ScoreRows scores externally supplied columns, e.g. a previously
// exported table. Only columns strictly above the threshold count.
func (s *TierScorer) ScoreRows(ctx context.Context, combos []model.Combination, official model.OfficialResult) (BatchReport, error) {
	rep := BatchReport{
		Official:  official,
		Threshold: s.threshold,
		Total:     len(combos),
	}
	for i, c := range combos {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return BatchReport{}, fmt.Errorf("scoring cancelled: %w", err)
			}
		}
		correct := CorrectCount(c, official)
		if correct <= s.threshold {
			continue
		}
		rep.Above++
		switch correct {
		case 13:
			rep.Hits13++
		case 14:
			rep.Hits14++
		case 15:
			rep.Hits15++
		}
		rep.Winners = append(rep.Winners, Entry{Index: i + 1, Correct: correct, Combination: c})
	}
	return rep, nil
}

// TierMark returns the display mark for a paying correct count, or "".
func TierMark(correct int) string {
	switch correct {
	case 15:
		return "***15***"
	case 14:
		return "**14**"
	case 13:
		return "*13*"
	case 12:
		return "12"
	}
	return ""
}

// PrizeWinning returns the number of paying columns in the report.
func (r Report) PrizeWinning() int { return len(r.Winners) }
