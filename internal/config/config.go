// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"

	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/generator"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Cutoff bounds the cartesian expansion; generation overflows past twice this.
	Cutoff int `koanf:"cutoff"`

	// UnitCost and Currency price a column set.
	UnitCost float64 `koanf:"unit_cost"`
	Currency string  `koanf:"currency"`

	// MaxSessions caps open sessions; the longest idle one is evicted first.
	MaxSessions int `koanf:"max_sessions"`

	// SessionIdleTTLMS expires sessions unused for that long. Zero keeps them
	// until evicted by MaxSessions.
	SessionIdleTTLMS int `koanf:"session_idle_ttl_ms"`

	// PreviewLimit columns are listed once a set exceeds PreviewThreshold.
	PreviewLimit     int `koanf:"preview_limit"`
	PreviewThreshold int `koanf:"preview_threshold"`

	// MaxPageSize caps GET /sessions/{id}/combinations?limit.
	MaxPageSize int `koanf:"max_page_size"`

	// MaxBodyBytes caps JSON request bodies of the sessions API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// EventsFile is a JSON array of {home, away} pairs. Empty means placeholders.
	EventsFile string `koanf:"events_file"`

	// ScheduleURL is the remote fixture page used by POST /matches/refresh.
	ScheduleURL       string `koanf:"schedule_url"`
	ScheduleTimeoutMS int    `koanf:"schedule_timeout_ms"`

	// CORSAllowedOrigins is passed to the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Constraints are applied when a generate request carries none.
	Constraints filter.Config `koanf:"constraints"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		Cutoff:             generator.DefaultCutoff,
		UnitCost:           10,
		Currency:           "TL",
		MaxSessions:        1024,
		PreviewLimit:       500,
		PreviewThreshold:   1000,
		MaxPageSize:        1000,
		MaxBodyBytes:       1 << 20,
		ScheduleTimeoutMS:  15_000,
		CORSAllowedOrigins: []string{"*"},
		Constraints:        filter.DefaultConfig(),
	}
}

// ScheduleTimeout returns ScheduleTimeoutMS as a duration.
func (c *Config) ScheduleTimeout() time.Duration {
	return time.Duration(c.ScheduleTimeoutMS) * time.Millisecond
}

// SessionIdleTTL returns SessionIdleTTLMS as a duration.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMS) * time.Millisecond
}

// Validate checks the values the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Cutoff <= 0:
		return fmt.Errorf("%w: cutoff must be positive, got %d", ErrInvalidConfig, c.Cutoff)
	case c.UnitCost < 0:
		return fmt.Errorf("%w: unit_cost must not be negative, got %v", ErrInvalidConfig, c.UnitCost)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	case c.PreviewLimit <= 0 || c.PreviewThreshold < c.PreviewLimit:
		return fmt.Errorf("%w: preview_limit must be positive and not above preview_threshold", ErrInvalidConfig)
	case c.SessionIdleTTLMS < 0:
		return fmt.Errorf("%w: session_idle_ttl_ms must not be negative, got %d", ErrInvalidConfig, c.SessionIdleTTLMS)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	case c.MaxPageSize <= 0:
		return fmt.Errorf("%w: max_page_size must be positive, got %d", ErrInvalidConfig, c.MaxPageSize)
	case c.ScheduleTimeoutMS <= 0:
		return fmt.Errorf("%w: schedule_timeout_ms must be positive, got %d", ErrInvalidConfig, c.ScheduleTimeoutMS)
	}
	if err := c.Constraints.Validate(); err != nil {
		return fmt.Errorf("%w: constraints: %w", ErrInvalidConfig, err)
	}
	return nil
}
