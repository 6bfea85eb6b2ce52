package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/toto/internal/domain/session"
	"github.com/okian/toto/internal/domain/types"
)

const defaultMaxBodyBytes = 1 << 20

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (types.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Generate(ctx context.Context, id string, req types.GenerateRequest) (types.GenerationResult, error)
	Combinations(ctx context.Context, id string, offset, limit int) (types.Page, error)
	Summary(ctx context.Context, id string) (session.Summary, error)
	Clear(ctx context.Context, id string) error
	Score(ctx context.Context, id, official string) (types.ScoreResult, error)
	ExportCSV(ctx context.Context, id string) (types.Export, error)
	ExportLines(ctx context.Context, id string) (types.Export, error)
}

// SessionsOption configures the SessionsHandler.
type SessionsOption func(*SessionsHandler)

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) SessionsOption {
	return func(h *SessionsHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// SessionsHandler handles session requests.
type SessionsHandler struct {
	deps         SessionDependencies
	maxBodyBytes int64
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies, opts ...SessionsOption) *SessionsHandler {
	h := &SessionsHandler{deps: deps, maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type scoreRequest struct {
	Official string `json:"official"`
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.CreateSession(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

// HandleSummary handles GET /sessions/{id} requests.
func (h *SessionsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.deps.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerate handles POST /sessions/{id}/generate requests.
func (h *SessionsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate"
	var req types.GenerateRequest
	if err := h.decode(w, r, &req); err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Generate(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCombinations handles GET /sessions/{id}/combinations?offset=&limit= requests.
func (h *SessionsHandler) HandleCombinations(w http.ResponseWriter, r *http.Request) {
	const op = "api.combinations"
	offset, err := queryInt(r, "offset")
	if err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.Combinations(r.Context(), mux.Vars(r)["id"], offset, limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleClear handles POST /sessions/{id}/clear requests.
func (h *SessionsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Clear(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleScore handles POST /sessions/{id}/score requests.
func (h *SessionsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	var req scoreRequest
	if err := h.decode(w, r, &req); err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Score(r.Context(), mux.Vars(r)["id"], req.Official)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExportCSV handles GET /sessions/{id}/export.csv requests.
func (h *SessionsHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	exp, err := h.deps.ExportCSV(r.Context(), mux.Vars(r)["id"])
	writeExport(w, exp, err)
}

// HandleExportLines handles GET /sessions/{id}/export.txt requests.
func (h *SessionsHandler) HandleExportLines(w http.ResponseWriter, r *http.Request) {
	exp, err := h.deps.ExportLines(r.Context(), mux.Vars(r)["id"])
	writeExport(w, exp, err)
}

func writeExport(w http.ResponseWriter, exp types.Export, err error) {
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Body)
}

func (h *SessionsHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return n, nil
}
