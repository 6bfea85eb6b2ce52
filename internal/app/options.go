package service

import (
	"time"

	"github.com/okian/toto/internal/adapters/source"
	"github.com/okian/toto/internal/config"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCutoff bounds the cartesian expansion (overflow past twice this).
func WithCutoff(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cutoff = n
		}
	}
}

// WithUnitCost sets the price of one column and its currency label.
func WithUnitCost(cost float64, currency string) Option {
	return func(s *Service) {
		if cost >= 0 {
			s.unitCost = cost
		}
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithMaxSessions caps open sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionIdleTTL expires sessions unused for longer than ttl.
func WithSessionIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionIdleTTL = ttl
		}
	}
}

// WithPreview lists only the first limit columns once a set exceeds threshold.
func WithPreview(limit, threshold int) Option {
	return func(s *Service) {
		if limit > 0 && threshold >= limit {
			s.previewLimit = limit
			s.previewThreshold = threshold
		}
	}
}

// WithMaxPageSize caps Combinations page sizes.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithDefaultConstraints sets the constraints used when a request has none.
func WithDefaultConstraints(cfg filter.Config) Option {
	return func(s *Service) {
		s.defaultConstraints = cfg
	}
}

// WithSlateSource sets where the slate is loaded from at start.
func WithSlateSource(src source.Source) Option {
	return func(s *Service) {
		s.slateSource = src
	}
}

// WithScheduleSource sets the remote source used by RefreshSchedule.
func WithScheduleSource(src source.Source) Option {
	return func(s *Service) {
		s.scheduleSource = src
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// FromConfig translates process configuration into service options. A
// configured events file becomes the slate source and a schedule URL the
// refresh source.
func FromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithCutoff(cfg.Cutoff),
		WithUnitCost(cfg.UnitCost, cfg.Currency),
		WithMaxSessions(cfg.MaxSessions),
		WithSessionIdleTTL(cfg.SessionIdleTTL()),
		WithPreview(cfg.PreviewLimit, cfg.PreviewThreshold),
		WithMaxPageSize(cfg.MaxPageSize),
		WithDefaultConstraints(cfg.Constraints),
	}
	if cfg.EventsFile != "" {
		opts = append(opts, WithSlateSource(source.NewFileSource(cfg.EventsFile)))
	}
	if cfg.ScheduleURL != "" {
		opts = append(opts, WithScheduleSource(
			source.NewScheduleSource(cfg.ScheduleURL, source.WithTimeout(cfg.ScheduleTimeout())),
		))
	}
	return opts
}
