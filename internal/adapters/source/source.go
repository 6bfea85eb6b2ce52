// Package source provides the slate of matches from a local file or a
// remote schedule page.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/toto/internal/domain/model"
)

// Source yields the ordered slate.
type Source interface {
	Matches(ctx context.Context) ([]model.Match, error)
}

// FileSource reads a JSON array of {"home": ..., "away": ...} objects.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Matches implements Source.
func (s *FileSource) Matches(_ context.Context) ([]model.Match, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSlate, err)
	}
	var matches []model.Match
	if err := json.Unmarshal(b, &matches); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSlate, s.path, err)
	}
	if len(matches) != model.SlateSize {
		return nil, fmt.Errorf("%w: %s holds %d matches, want %d", ErrLoadSlate, s.path, len(matches), model.SlateSize)
	}
	return matches, nil
}

// Placeholder returns a slate with numbered labels, used until a real
// slate has been loaded.
func Placeholder() []model.Match {
	out := make([]model.Match, model.SlateSize)
	for i := range out {
		out[i] = model.Match{
			Home: fmt.Sprintf("Home %d", i+1),
			Away: fmt.Sprintf("Away %d", i+1),
		}
	}
	return out
}
