package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/okian/toto/internal/domain/types"
)

const defaultMaxTableBytes = 16 << 20

// TableDependencies defines the interface for imported table checks.
type TableDependencies interface {
	CheckTable(ctx context.Context, r io.Reader, official string) (types.TableCheckResult, error)
}

// TablesHandler handles table check requests.
type TablesHandler struct {
	deps     TableDependencies
	maxBytes int64
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TableDependencies) *TablesHandler {
	return &TablesHandler{deps: deps, maxBytes: defaultMaxTableBytes}
}

// HandleCheck handles POST /tables/check requests. The table is either the
// raw request body (official results in ?official=) or the "file" field of
// a multipart form (official results in the "official" field).
func (h *TablesHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.check_table"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	body := io.Reader(r.Body)
	official := r.URL.Query().Get("official")

	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			fail(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		defer func() { _ = file.Close() }()
		body = file
		if v := r.FormValue("official"); v != "" {
			official = v
		}
	}
	if official == "" {
		fail(w, WrapKind(op, ErrBadRequest, errors.New("missing official results")))
		return
	}

	res, err := h.deps.CheckTable(r.Context(), body, official)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
