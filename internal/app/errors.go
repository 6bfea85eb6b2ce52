package service

import (
	"context"
	"errors"

	"github.com/okian/toto/internal/adapters/repository"
	"github.com/okian/toto/internal/adapters/source"
	"github.com/okian/toto/internal/adapters/table"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/generator"
	"github.com/okian/toto/internal/domain/model"
	"github.com/okian/toto/internal/domain/session"
)

// Sentinel error kinds for the service.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrNoScheduleSource = errors.New("no schedule source configured")
	ErrInvalidPage      = errors.New("invalid page")
)

// ErrorKind maps err to a short label used for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, generator.ErrIncompleteSelection):
		return "incomplete_selection"
	case errors.Is(err, generator.ErrGenerationOverflow):
		return "overflow"
	case errors.Is(err, filter.ErrInvalidConstraint):
		return "invalid_constraint"
	case errors.Is(err, model.ErrInvalidPicks), errors.Is(err, model.ErrInvalidSymbol):
		return "invalid_selection"
	case errors.Is(err, model.ErrInvalidOfficialResult):
		return "invalid_official_result"
	case errors.Is(err, table.ErrInvalidTable):
		return "invalid_table"
	case errors.Is(err, session.ErrEmptyFilteredSet):
		return "empty_set"
	case errors.Is(err, repository.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrInvalidPage):
		return "invalid_page"
	case errors.Is(err, source.ErrScheduleMismatch), errors.Is(err, source.ErrScheduleUnreachable):
		return "schedule"
	case errors.Is(err, ErrNoScheduleSource):
		return "no_schedule_source"
	case errors.Is(err, ErrNotStarted):
		return "not_started"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

// IsUserError reports whether err was caused by the caller's input.
func IsUserError(err error) bool {
	switch ErrorKind(err) {
	case "internal", "schedule", "canceled", "not_started":
		return false
	}
	return true
}
