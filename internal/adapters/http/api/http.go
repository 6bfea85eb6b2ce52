// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	MatchDependencies
	TableDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	matchesHandler  *MatchesHandler
	tablesHandler   *TablesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...SessionsOption) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		sessionsHandler: NewSessionsHandler(deps, opts...),
		matchesHandler:  NewMatchesHandler(deps),
		tablesHandler:   NewTablesHandler(deps),
	}
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}

	router.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	router.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	router.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches")).Methods(http.MethodGet)
	router.HandleFunc("/matches/refresh", MetricsMiddleware(s.matchesHandler.HandleRefresh, "matches_refresh")).Methods(http.MethodPost)

	router.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions")).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleSummary, "session")).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session")).Methods(http.MethodDelete)
	router.HandleFunc("/sessions/{id}/generate", MetricsMiddleware(s.sessionsHandler.HandleGenerate, "generate")).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/combinations", MetricsMiddleware(s.sessionsHandler.HandleCombinations, "combinations")).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/clear", MetricsMiddleware(s.sessionsHandler.HandleClear, "clear")).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/score", MetricsMiddleware(s.sessionsHandler.HandleScore, "score")).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/export.csv", MetricsMiddleware(s.sessionsHandler.HandleExportCSV, "export_csv")).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/export.txt", MetricsMiddleware(s.sessionsHandler.HandleExportLines, "export_txt")).Methods(http.MethodGet)

	router.HandleFunc("/tables/check", MetricsMiddleware(s.tablesHandler.HandleCheck, "tables_check")).Methods(http.MethodPost)
}

// CORS wraps h with the CORS policy for the given origins.
func CORS(h http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return c.Handler(h)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
