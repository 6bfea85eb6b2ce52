// Package types contains the request and response shapes shared by the
// HTTP API and the CLI.
package types

import (
	"encoding/json"
	"time"

	"github.com/okian/toto/internal/domain/filter"
)

// Session is an open generation session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateRequest carries per-match picks and optional constraints.
// Selections holds fifteen lists of "0", "1" or "2".
//
// Constraints replaces the configured defaults outright. Overrides is the
// JSON "constraints" object of an API request; it is decoded over the
// defaults, so every field it omits keeps its default value.
type GenerateRequest struct {
	Selections  [][]string      `json:"selections"`
	Constraints *filter.Config  `json:"-"`
	Overrides   json.RawMessage `json:"constraints,omitempty"`
}

// Column is one numbered column of a set.
type Column struct {
	Index  int    `json:"index"` // 1-based
	Column string `json:"column"`
}

// GenerationResult summarises a generation and previews the kept columns.
type GenerationResult struct {
	SessionID  string         `json:"session_id"`
	Raw        int            `json:"raw"`
	Filtered   int            `json:"filtered"`
	Cost       float64        `json:"cost"`
	Currency   string         `json:"currency"`
	Filters    []string       `json:"filters"`
	Rejections map[string]int `json:"rejections"`
	Preview    []Column       `json:"preview"`
	Remaining  int            `json:"remaining"` // kept columns not in Preview
	Message    string         `json:"message,omitempty"`
}

// Page is a window over a session's filtered set.
type Page struct {
	SessionID string   `json:"session_id"`
	Offset    int      `json:"offset"`
	Limit     int      `json:"limit"`
	Total     int      `json:"total"`
	Columns   []Column `json:"columns"`
}

// Winner is a prize-eligible column.
type Winner struct {
	Index   int    `json:"index"` // 1-based position in the scored set
	Column  string `json:"column"`
	Correct int    `json:"correct"`
	Mark    string `json:"mark"`
}

// ScoreResult is the outcome of checking a session against official results.
type ScoreResult struct {
	SessionID    string   `json:"session_id"`
	Official     string   `json:"official"`
	Threshold    int      `json:"threshold"`
	Total        int      `json:"total"`
	Hits15       int      `json:"hits_15"`
	Hits14       int      `json:"hits_14"`
	Hits13       int      `json:"hits_13"`
	Hits12       int      `json:"hits_12"`
	Distribution []int    `json:"distribution"` // index = correct count
	Winners      []Winner `json:"winners"`
	Message      string   `json:"message"`
}

// TableCheckResult is the outcome of checking an imported table.
type TableCheckResult struct {
	Official  string   `json:"official"`
	Threshold int      `json:"threshold"` // winners have more than this many correct
	Rows      int      `json:"rows"`
	Dropped   int      `json:"dropped"`
	Above     int      `json:"above"`
	Hits13    int      `json:"hits_13"`
	Hits14    int      `json:"hits_14"`
	Hits15    int      `json:"hits_15"`
	Winners   []Winner `json:"winners"`
	Message   string   `json:"message"`
}

// Export is a rendered column set ready to be sent as a file.
type Export struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Body        []byte `json:"-"`
}

// Match is one fixture of the slate.
type Match struct {
	Number int    `json:"number"` // 1-based
	Home   string `json:"home"`
	Away   string `json:"away"`
}

// Slate is the current fifteen-match programme.
type Slate struct {
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
	Matches   []Match   `json:"matches"`
}
