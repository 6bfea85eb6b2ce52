// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/okian/toto/internal/adapters/repository"
	"github.com/okian/toto/internal/adapters/source"
	"github.com/okian/toto/internal/adapters/table"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/generator"
	"github.com/okian/toto/internal/domain/model"
	"github.com/okian/toto/internal/domain/scoring"
	"github.com/okian/toto/internal/domain/session"
	"github.com/okian/toto/internal/domain/types"
	"github.com/okian/toto/pkg/logger"
	"github.com/okian/toto/pkg/metrics"
)

// Defaults for the service.
const (
	DefaultUnitCost         = 10
	DefaultCurrency         = "TL"
	DefaultPreviewLimit     = 500
	DefaultPreviewThreshold = 1000
	DefaultMaxPageSize      = 1000
)

// Service implements the API dependencies for the column planner.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions  repository.Store
	generator *generator.Generator
	scorer    scoring.Scorer

	// Slate
	slateSource    source.Source
	scheduleSource source.Source
	slateMu        sync.RWMutex
	slate          types.Slate

	// Configuration
	cutoff             int
	unitCost           float64
	currency           string
	maxSessions        int
	sessionIdleTTL     time.Duration
	previewLimit       int
	previewThreshold   int
	maxPageSize        int
	defaultConstraints filter.Config
	now                func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cutoff:             generator.DefaultCutoff,
		unitCost:           DefaultUnitCost,
		currency:           DefaultCurrency,
		maxSessions:        repository.DefaultMaxSessions,
		previewLimit:       DefaultPreviewLimit,
		previewThreshold:   DefaultPreviewThreshold,
		maxPageSize:        DefaultMaxPageSize,
		defaultConstraints: filter.DefaultConfig(),
		now:                time.Now,
		logger:             nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and loads the slate.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if err := s.defaultConstraints.Validate(); err != nil {
		return fmt.Errorf("default constraints: %w", err)
	}

	s.logger.Info(ctx, "starting toto service...")

	s.sessions = repository.NewMemoryStore(ctx,
		repository.WithMaxSessions(s.maxSessions),
		repository.WithIdleTTL(s.sessionIdleTTL),
		repository.WithClock(s.now),
	)
	s.generator = generator.New(generator.WithCutoff(s.cutoff))
	s.scorer = scoring.NewTierScorer()

	s.loadSlate(ctx)

	s.started = true
	s.logger.Info(ctx, "toto service started",
		logger.Int("cutoff", s.generator.Cutoff()),
		logger.Int("limit", s.generator.Limit()),
		logger.Int("maxSessions", s.maxSessions),
		logger.Float64("unitCost", s.unitCost),
		logger.String("currency", s.currency),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping toto service...")

	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "toto service stopped")
}

// loadSlate reads the configured slate, falling back to placeholders.
func (s *Service) loadSlate(ctx context.Context) {
	matches := source.Placeholder()
	name := "placeholder"
	if s.slateSource != nil {
		loaded, err := s.slateSource.Matches(ctx)
		if err != nil {
			s.logger.Warn(ctx, "could not load slate, using placeholders", logger.Error(err))
		} else {
			matches, name = loaded, sourceName(s.slateSource)
		}
	}
	s.setSlate(matches, name)
}

func (s *Service) setSlate(matches []model.Match, name string) types.Slate {
	slate := types.Slate{Source: name, UpdatedAt: s.now(), Matches: make([]types.Match, len(matches))}
	for i, m := range matches {
		slate.Matches[i] = types.Match{Number: i + 1, Home: m.Home, Away: m.Away}
	}
	s.slateMu.Lock()
	s.slate = slate
	s.slateMu.Unlock()
	return slate
}

func sourceName(src source.Source) string {
	switch src.(type) {
	case *source.FileSource:
		return "file"
	case *source.ScheduleSource:
		return "schedule"
	default:
		return "custom"
	}
}

// ready returns the components guarded by mu or ErrNotStarted.
func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

func (s *Service) session(ctx context.Context, id string) (*session.Session, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

// fail logs err at a level matching its cause and records it.
func (s *Service) fail(ctx context.Context, op string, err error, fields ...logger.Field) error {
	if errors.Is(err, ErrNotStarted) {
		return err
	}
	kind := ErrorKind(err)
	fields = append(fields, logger.String("op", op), logger.String("kind", kind), logger.Error(err))
	if IsUserError(err) {
		s.logger.Warn(ctx, "request rejected", fields...)
		metrics.RecordErrorByType(kind, "warning")
	} else {
		s.logger.Error(ctx, "request failed", fields...)
		metrics.RecordErrorByType(kind, "error")
	}
	return err
}

// CreateSession opens an empty session.
func (s *Service) CreateSession(ctx context.Context) (types.Session, error) {
	store, err := s.ready()
	if err != nil {
		return types.Session{}, err
	}
	sess, err := store.Create(ctx)
	if err != nil {
		return types.Session{}, s.fail(ctx, "create_session", err)
	}
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID()))
	return types.Session{ID: sess.ID(), CreatedAt: sess.CreatedAt()}, nil
}

// DeleteSession drops a session and its column set.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete_session", err, logger.String("session", id))
	}
	s.logger.Debug(ctx, "session deleted", logger.String("session", id))
	return nil
}

// Generate expands the picks, filters the columns and replaces the
// session's set. On error the previous set is left untouched.
func (s *Service) Generate(ctx context.Context, id string, req types.GenerateRequest) (types.GenerationResult, error) {
	start := time.Now()
	res, err := s.generate(ctx, id, req)
	metrics.RecordGeneration(ErrorKind(err))
	if err != nil {
		metrics.RecordErrorLatency("generator", ErrorKind(err), float64(time.Since(start).Microseconds())/1000)
		return types.GenerationResult{}, s.fail(ctx, "generate", err, logger.String("session", id))
	}
	metrics.RecordGenerationLatency(float64(time.Since(start).Microseconds()) / 1000)
	return res, nil
}

func (s *Service) generate(ctx context.Context, id string, req types.GenerateRequest) (types.GenerationResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.GenerationResult{}, err
	}

	sel, err := model.SelectionSetFromStrings(req.Selections)
	if err != nil {
		return types.GenerationResult{}, err
	}

	cfg, err := s.constraints(req)
	if err != nil {
		return types.GenerationResult{}, err
	}

	s.logger.Debug(ctx, "generating columns",
		logger.String("session", id),
		logger.String("selections", sel.String()),
		logger.Int("open", sel.OpenMatches()),
	)

	combos, err := s.generator.Generate(ctx, sel)
	if err != nil {
		return types.GenerationResult{}, err
	}

	res := filter.Apply(combos, cfg)
	rejections := make(map[string]int, len(res.Rejections))
	for p, n := range res.Rejections {
		rejections[p.String()] = n
		metrics.RecordFilterRejections(p.String(), n)
	}
	metrics.RecordCombinationSizes(res.Raw, res.Filtered())

	summary := session.Summary{
		Selections:  sel.String(),
		Constraints: cfg,
		Raw:         res.Raw,
		Filtered:    res.Filtered(),
		Rejections:  rejections,
		Cost:        res.Cost(s.unitCost),
		GeneratedAt: s.now(),
	}
	sess.Replace(res.Kept, summary)

	s.logger.Info(ctx, "columns generated",
		logger.String("session", id),
		logger.Int("raw", summary.Raw),
		logger.Int("filtered", summary.Filtered),
		logger.Float64("cost", summary.Cost),
	)

	return s.generationResult(id, res.Kept, summary), nil
}

// constraints resolves the filter config for req: an explicit config wins,
// then JSON overrides decoded over the defaults, then the defaults.
func (s *Service) constraints(req types.GenerateRequest) (filter.Config, error) {
	cfg := s.defaultConstraints
	if req.Constraints != nil {
		cfg = *req.Constraints
	}
	if len(req.Overrides) > 0 && !bytes.Equal(bytes.TrimSpace(req.Overrides), []byte("null")) {
		return cfg.Overlay(req.Overrides)
	}
	if err := cfg.Validate(); err != nil {
		return filter.Config{}, err
	}
	return cfg, nil
}

func (s *Service) generationResult(id string, kept []model.Combination, summary session.Summary) types.GenerationResult {
	out := types.GenerationResult{
		SessionID:  id,
		Raw:        summary.Raw,
		Filtered:   summary.Filtered,
		Cost:       summary.Cost,
		Currency:   s.currency,
		Filters:    summary.Constraints.Describe(),
		Rejections: summary.Rejections,
	}

	shown := kept
	switch {
	case len(kept) == 0:
		out.Message = "No combinations left! Try loosening some filters."
	case len(kept) > s.previewThreshold:
		shown = kept[:s.previewLimit]
		out.Remaining = len(kept) - s.previewLimit
		out.Message = fmt.Sprintf("First %d shown (total: %d), ... and %d more.", s.previewLimit, len(kept), out.Remaining)
	}
	out.Preview = columns(shown, 0)
	return out
}

func columns(combos []model.Combination, offset int) []types.Column {
	out := make([]types.Column, len(combos))
	for i, c := range combos {
		out[i] = types.Column{Index: offset + i + 1, Column: c.String()}
	}
	return out
}

// Combinations returns a window of the session's filtered set. A limit of
// zero means the maximum page size.
func (s *Service) Combinations(ctx context.Context, id string, offset, limit int) (types.Page, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.Page{}, s.fail(ctx, "combinations", err, logger.String("session", id))
	}
	if offset < 0 || limit < 0 {
		return types.Page{}, s.fail(ctx, "combinations", fmt.Errorf("%w: offset and limit must not be negative", ErrInvalidPage))
	}
	if limit == 0 || limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	combos, err := sess.Combinations()
	if err != nil {
		return types.Page{}, s.fail(ctx, "combinations", err, logger.String("session", id))
	}

	from := min(offset, len(combos))
	to := min(from+limit, len(combos))
	return types.Page{
		SessionID: id,
		Offset:    offset,
		Limit:     limit,
		Total:     len(combos),
		Columns:   columns(combos[from:to], from),
	}, nil
}

// Summary returns how the session's current set was produced.
func (s *Service) Summary(ctx context.Context, id string) (session.Summary, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return session.Summary{}, s.fail(ctx, "summary", err, logger.String("session", id))
	}
	if sess.Len() == 0 {
		return session.Summary{}, s.fail(ctx, "summary", session.ErrEmptyFilteredSet, logger.String("session", id))
	}
	return sess.Summary(), nil
}

// Clear empties the session's filtered set.
func (s *Service) Clear(ctx context.Context, id string) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return s.fail(ctx, "clear", err, logger.String("session", id))
	}
	sess.Clear()
	s.logger.Info(ctx, "session cleared", logger.String("session", id))
	return nil
}

// Score checks the session's filtered set against the official result.
// Columns with at least the prize threshold correct are winners.
func (s *Service) Score(ctx context.Context, id, official string) (types.ScoreResult, error) {
	start := time.Now()
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.ScoreResult{}, s.fail(ctx, "score", err, logger.String("session", id))
	}
	off, err := model.ParseOfficialResult(official)
	if err != nil {
		return types.ScoreResult{}, s.fail(ctx, "score", err, logger.String("session", id))
	}
	combos, err := sess.Combinations()
	if err != nil {
		return types.ScoreResult{}, s.fail(ctx, "score", err, logger.String("session", id))
	}

	report, err := s.scorer.Score(ctx, combos, off)
	if err != nil {
		return types.ScoreResult{}, s.fail(ctx, "score", err, logger.String("session", id))
	}
	metrics.RecordScoringRun("interactive")
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	for correct := report.Threshold; correct <= scoring.Jackpot; correct++ {
		metrics.RecordTierHits("interactive", fmt.Sprint(correct), report.Distribution[correct])
	}

	out := types.ScoreResult{
		SessionID:    id,
		Official:     off.String(),
		Threshold:    report.Threshold,
		Total:        len(report.Entries),
		Hits15:       report.Hits15,
		Hits14:       report.Hits14,
		Hits13:       report.Hits13,
		Hits12:       report.Hits12,
		Distribution: report.Distribution[:],
		Winners:      winners(report.Winners),
	}
	if len(out.Winners) == 0 {
		out.Message = fmt.Sprintf("No columns with %d or more correct.", report.Threshold)
	} else {
		out.Message = fmt.Sprintf("Total prize-winning columns (>=%d): %d", report.Threshold, len(out.Winners))
	}

	s.logger.Info(ctx, "results checked",
		logger.String("session", id),
		logger.Int("columns", out.Total),
		logger.Int("winners", len(out.Winners)),
	)
	return out, nil
}

func winners(entries []scoring.Entry) []types.Winner {
	out := make([]types.Winner, len(entries))
	for i, e := range entries {
		out[i] = types.Winner{
			Index:   e.Index,
			Column:  e.Combination.String(),
			Correct: e.Correct,
			Mark:    scoring.TierMark(e.Correct),
		}
	}
	return out
}

// ExportCSV renders the session's filtered set as a Column,Match1..Match15 table.
func (s *Service) ExportCSV(ctx context.Context, id string) (types.Export, error) {
	return s.export(ctx, id, "csv", func(w io.Writer, combos []model.Combination) error {
		return table.Write(w, combos)
	})
}

// ExportLines renders the session's filtered set as one space-joined column per line.
func (s *Service) ExportLines(ctx context.Context, id string) (types.Export, error) {
	return s.export(ctx, id, "lines", table.WriteLines)
}

func (s *Service) export(ctx context.Context, id, format string, render func(io.Writer, []model.Combination) error) (types.Export, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.Export{}, s.fail(ctx, "export", err, logger.String("session", id))
	}
	combos, err := sess.Combinations()
	if err != nil {
		return types.Export{}, s.fail(ctx, "export", err, logger.String("session", id))
	}

	var buf bytes.Buffer
	if err := render(&buf, combos); err != nil {
		return types.Export{}, s.fail(ctx, "export", err, logger.String("session", id))
	}
	metrics.RecordExport(format)

	out := types.Export{
		Filename:    table.Filename(s.now()),
		ContentType: "text/csv; charset=utf-8",
		Rows:        len(combos),
		Body:        buf.Bytes(),
	}
	if format == "lines" {
		out.Filename = strings.TrimSuffix(out.Filename, ".csv") + ".txt"
		out.ContentType = "text/plain; charset=utf-8"
	}
	s.logger.Debug(ctx, "columns exported",
		logger.String("session", id),
		logger.String("format", format),
		logger.Int("rows", out.Rows),
	)
	return out, nil
}

// CheckTable scores an imported Column,Match1..Match15 table. Malformed rows
// are skipped; columns with more than the prize threshold correct are winners.
func (s *Service) CheckTable(ctx context.Context, r io.Reader, official string) (types.TableCheckResult, error) {
	if _, err := s.ready(); err != nil {
		return types.TableCheckResult{}, err
	}
	start := time.Now()

	off, err := model.ParseOfficialResult(official)
	if err != nil {
		return types.TableCheckResult{}, s.fail(ctx, "check_table", err)
	}
	rows, stats, err := table.Read(r)
	metrics.RecordTableRows(stats.Rows, stats.Dropped)
	if err != nil {
		return types.TableCheckResult{}, s.fail(ctx, "check_table", err, logger.Int("dropped", stats.Dropped))
	}

	report, err := s.scorer.ScoreRows(ctx, table.Combinations(rows), off)
	if err != nil {
		return types.TableCheckResult{}, s.fail(ctx, "check_table", err)
	}
	metrics.RecordScoringRun("batch")
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordTierHits("batch", "13", report.Hits13)
	metrics.RecordTierHits("batch", "14", report.Hits14)
	metrics.RecordTierHits("batch", "15", report.Hits15)

	out := types.TableCheckResult{
		Official:  off.String(),
		Threshold: report.Threshold,
		Rows:      report.Total,
		Dropped:   stats.Dropped,
		Above:     report.Above,
		Hits13:    report.Hits13,
		Hits14:    report.Hits14,
		Hits15:    report.Hits15,
		Winners:   winners(report.Winners),
	}
	if out.Above == 0 {
		out.Message = fmt.Sprintf("No columns with more than %d correct.", report.Threshold)
	} else {
		out.Message = fmt.Sprintf("Columns with more than %d correct: %d", report.Threshold, out.Above)
	}

	s.logger.Info(ctx, "table checked",
		logger.Int("rows", out.Rows),
		logger.Int("dropped", out.Dropped),
		logger.Int("above", out.Above),
	)
	return out, nil
}

// Matches returns the current slate.
func (s *Service) Matches(_ context.Context) types.Slate {
	s.slateMu.RLock()
	defer s.slateMu.RUnlock()
	out := s.slate
	out.Matches = append([]types.Match(nil), s.slate.Matches...)
	return out
}

// RefreshSchedule replaces the slate with the remote schedule. On failure
// the previous slate is kept.
func (s *Service) RefreshSchedule(ctx context.Context) (types.Slate, error) {
	if _, err := s.ready(); err != nil {
		return types.Slate{}, err
	}
	if s.scheduleSource == nil {
		return types.Slate{}, s.fail(ctx, "refresh_schedule", ErrNoScheduleSource)
	}

	matches, err := s.scheduleSource.Matches(ctx)
	if err != nil {
		metrics.RecordScheduleRefresh("failed")
		return types.Slate{}, s.fail(ctx, "refresh_schedule", err)
	}
	if len(matches) != model.SlateSize {
		metrics.RecordScheduleRefresh("failed")
		return types.Slate{}, s.fail(ctx, "refresh_schedule",
			fmt.Errorf("%w: got %d matches", source.ErrScheduleMismatch, len(matches)))
	}

	metrics.RecordScheduleRefresh("ok")
	slate := s.setSlate(matches, sourceName(s.scheduleSource))
	s.logger.Info(ctx, "schedule refreshed", logger.String("source", slate.Source))
	return slate, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"cutoff":           s.cutoff,
		"unitCost":         s.unitCost,
		"currency":         s.currency,
		"maxSessions":      s.maxSessions,
		"sessionIdleTTL":   s.sessionIdleTTL.String(),
		"previewLimit":     s.previewLimit,
		"previewThreshold": s.previewThreshold,
	}

	s.slateMu.RLock()
	stats["slateSource"] = s.slate.Source
	stats["slateUpdatedAt"] = s.slate.UpdatedAt
	s.slateMu.RUnlock()

	if s.started {
		count := s.sessions.Count(context.Background())
		stats["sessions"] = count
		stats["limit"] = s.generator.Limit()
		metrics.UpdateSessionsActive(count)
	}

	return stats
}
