package api

import (
	"context"
	"net/http"

	"github.com/okian/toto/internal/domain/types"
)

// MatchDependencies defines the interface for slate operations.
type MatchDependencies interface {
	Matches(ctx context.Context) types.Slate
	RefreshSchedule(ctx context.Context) (types.Slate, error)
}

// MatchesHandler handles slate requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleList handles GET /matches requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Matches(r.Context()))
}

// HandleRefresh handles POST /matches/refresh requests. The current slate
// is kept when the refresh fails.
func (h *MatchesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	slate, err := h.deps.RefreshSchedule(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slate)
}
