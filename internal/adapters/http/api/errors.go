package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/toto/internal/adapters/repository"
	"github.com/okian/toto/internal/adapters/source"
	"github.com/okian/toto/internal/adapters/table"
	service "github.com/okian/toto/internal/app"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/generator"
	"github.com/okian/toto/internal/domain/model"
	"github.com/okian/toto/internal/domain/session"
)

// ErrBadRequest marks requests that cannot be decoded or are missing input.
var ErrBadRequest = errors.New("bad request")

// Error carries the operation and kind of a failed request.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// statusFor maps an error to an HTTP status and a machine readable code.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, session.ErrEmptyFilteredSet):
		return http.StatusConflict, "empty_filtered_set"
	case errors.Is(err, generator.ErrGenerationOverflow):
		return http.StatusUnprocessableEntity, "generation_overflow"
	case errors.Is(err, generator.ErrIncompleteSelection):
		return http.StatusUnprocessableEntity, "incomplete_selection"
	case errors.Is(err, filter.ErrInvalidConstraint):
		return http.StatusUnprocessableEntity, "invalid_constraint"
	case errors.Is(err, model.ErrInvalidPicks), errors.Is(err, model.ErrInvalidSymbol):
		return http.StatusBadRequest, "invalid_selection"
	case errors.Is(err, model.ErrInvalidOfficialResult):
		return http.StatusBadRequest, "invalid_official_result"
	case errors.Is(err, table.ErrInvalidTable):
		return http.StatusBadRequest, "invalid_table"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidPage):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, source.ErrScheduleUnreachable), errors.Is(err, source.ErrScheduleMismatch):
		return http.StatusBadGateway, "schedule_unavailable"
	case errors.Is(err, service.ErrNoScheduleSource):
		return http.StatusNotImplemented, "no_schedule_source"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with the status that matches its kind.
func fail(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
