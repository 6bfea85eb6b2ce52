package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/toto/internal/domain/model"
)

// UnlimitedHomeWins disables the home-win ceiling.
const UnlimitedHomeWins = model.SlateSize

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min int `json:"min" koanf:"min"`
	Max int `json:"max" koanf:"max"`
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool { return n >= r.Min && n <= r.Max }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Min, r.Max) }

// Config bounds the columns that survive filtering.
type Config struct {
	Draws               Range `json:"draws" koanf:"draws"`
	MaxConsecutiveDraws int   `json:"max_consecutive_draws" koanf:"max_consecutive_draws"`
	MaxHomeWins         int   `json:"max_home_wins" koanf:"max_home_wins"`
	MinAwayWins         int   `json:"min_away_wins" koanf:"min_away_wins"`
	Group1Draws         Range `json:"group1_draws" koanf:"group1_draws"`
	Group2Draws         Range `json:"group2_draws" koanf:"group2_draws"`
}

// DefaultConfig returns a config that accepts every column.
func DefaultConfig() Config {
	return Config{
		Draws:               Range{Min: 0, Max: model.SlateSize},
		MaxConsecutiveDraws: model.SlateSize,
		MaxHomeWins:         UnlimitedHomeWins,
		MinAwayWins:         0,
		Group1Draws:         Range{Min: 0, Max: model.Group1Size},
		Group2Draws:         Range{Min: 0, Max: model.Group2Size},
	}
}

// Overlay decodes a JSON constraints object on top of c. Fields the
// object omits, including one end of a range, keep their value from c.
// The result is validated.
func (c Config) Overlay(data []byte) (Config, error) {
	out := c
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return c, &ConstraintError{Field: "constraints", Reason: err.Error()}
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

// Validate rejects out-of-range values and inverted ranges. Values are
// never clamped.
func (c Config) Validate() error {
	if err := checkRange("draws", c.Draws, model.SlateSize); err != nil {
		return err
	}
	if err := checkBound("max_consecutive_draws", c.MaxConsecutiveDraws, model.SlateSize); err != nil {
		return err
	}
	if err := checkBound("max_home_wins", c.MaxHomeWins, model.SlateSize); err != nil {
		return err
	}
	if err := checkBound("min_away_wins", c.MinAwayWins, model.SlateSize); err != nil {
		return err
	}
	if err := checkRange("group1_draws", c.Group1Draws, model.Group1Size); err != nil {
		return err
	}
	return checkRange("group2_draws", c.Group2Draws, model.Group2Size)
}

func checkBound(field string, v, hi int) error {
	if v < 0 || v > hi {
		return &ConstraintError{Field: field, Reason: fmt.Sprintf("must be within 0-%d, got %d", hi, v)}
	}
	return nil
}

func checkRange(field string, r Range, hi int) error {
	if err := checkBound(field+".min", r.Min, hi); err != nil {
		return err
	}
	if err := checkBound(field+".max", r.Max, hi); err != nil {
		return err
	}
	if r.Min > r.Max {
		return &ConstraintError{Field: field, Reason: fmt.Sprintf("min %d is greater than max %d", r.Min, r.Max)}
	}
	return nil
}

// Describe renders the active filters, one per line.
func (c Config) Describe() []string {
	home := strconv.Itoa(c.MaxHomeWins)
	if c.MaxHomeWins >= UnlimitedHomeWins {
		home = "unlimited"
	}
	return []string{
		fmt.Sprintf("Global draws: %s", c.Draws),
		fmt.Sprintf("Group 1 (1-%d): %s draws", model.Group1Size, c.Group1Draws),
		fmt.Sprintf("Group 2 (%d-%d): %s draws", model.Group1Size+1, model.SlateSize, c.Group2Draws),
		fmt.Sprintf("Max %d consecutive draws", c.MaxConsecutiveDraws),
		fmt.Sprintf("Max %s home wins", home),
		fmt.Sprintf("Min %d away wins", c.MinAwayWins),
	}
}
