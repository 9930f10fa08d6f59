// Package analytics composes the engine components behind a single
// service: every query scopes a dataset snapshot to an explicit project
// selection and recomputes the requested view from scratch.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/attribution"
	"github.com/lumenlabs/pulse/internal/domain/cohort"
	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/lumenlabs/pulse/internal/domain/scope"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
	"github.com/lumenlabs/pulse/internal/repository"
)

// DefaultTopN bounds insight and attribution rankings when the caller
// doesn't ask for a specific length.
const DefaultTopN = 10

// Config holds the engine parameters that are deployment decisions
// rather than data: the calendar location, the session inactivity
// threshold, and the funnel rate definitions.
type Config struct {
	Location   *time.Location
	SessionGap time.Duration
	TopN       int
	Funnel     cohort.Options
}

func (c Config) withDefaults() Config {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.SessionGap == 0 {
		c.SessionGap = session.DefaultGap
	}
	if c.TopN == 0 {
		c.TopN = DefaultTopN
	}
	return c
}

// Service answers analytics queries over an immutable dataset snapshot.
// Reload swaps the snapshot atomically; queries in flight keep computing
// over the snapshot they started with.
type Service struct {
	source repository.DatasetSource
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *dataset.Dataset
}

// NewService creates an analytics service over a dataset source.
func NewService(source repository.DatasetSource, cfg Config, logger *slog.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: nil dataset source", ErrInvalidInput)
	}
	if cfg.SessionGap < 0 {
		return nil, fmt.Errorf("%w: negative session gap", ErrInvalidInput)
	}
	if cfg.TopN < 0 {
		return nil, fmt.Errorf("%w: negative top-n", ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cfg: cfg.withDefaults(), logger: logger}, nil
}

// Reload loads a fresh dataset snapshot from the source.
func (s *Service) Reload(ctx context.Context) error {
	d, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	s.mu.Lock()
	s.snapshot = d
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		"projects", len(d.Projects),
		"lights", len(d.Lights),
		"scenes", len(d.Scenes),
		"objects", len(d.Objects),
		"scans", len(d.Scans),
		"clicks", len(d.Clicks),
	)
	return nil
}

func (s *Service) scoped(projectIDs []int) (*dataset.Dataset, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}
	return scope.Apply(snapshot, projectIDs)
}

// ProjectInfo is a listing row for the scope selector.
type ProjectInfo struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Active   bool       `json:"active"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Lights   int        `json:"lights"`
	Scenes   int        `json:"scenes"`
}

// ListProjects lists every project in the snapshot, unscoped, so callers
// can build a selection.
func (s *Service) ListProjects() ([]ProjectInfo, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}

	infos := make([]ProjectInfo, 0, len(snapshot.Projects))
	for _, proj := range snapshot.Projects {
		infos = append(infos, ProjectInfo{
			ID:       proj.ID,
			Name:     proj.Name,
			Active:   proj.Active,
			StartsAt: proj.StartsAt,
			EndsAt:   proj.EndsAt,
			Lights:   len(proj.LightIDs),
			Scenes:   len(proj.SceneRefs),
		})
	}
	return infos, nil
}

// ScopeSummary reports the size of a scoped dataset.
type ScopeSummary struct {
	Projects int `json:"projects"`
	Lights   int `json:"lights"`
	Scenes   int `json:"scenes"`
	Objects  int `json:"objects"`
	Scans    int `json:"scans"`
	Clicks   int `json:"clicks"`
	Users    int `json:"users"`
}

// Summary scopes the snapshot and reports entity and event counts.
func (s *Service) Summary(projectIDs []int) (ScopeSummary, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return ScopeSummary{}, err
	}
	return ScopeSummary{
		Projects: len(d.Projects),
		Lights:   len(d.Lights),
		Scenes:   len(d.Scenes),
		Objects:  len(d.Objects),
		Scans:    len(d.Scans),
		Clicks:   len(d.Clicks),
		Users:    len(d.Index.FirstClickByUser),
	}, nil
}

// Ranking computes per-project volume rows over the scoped events.
func (s *Service) Ranking(projectIDs []int, kind timeseries.EventKind, now time.Time) ([]timeseries.RankingRow, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	return timeseries.ProjectRanking(d, kind, now, s.cfg.Location)
}

// SeriesResult is a dense volume series plus its summary.
type SeriesResult struct {
	Points  []timeseries.Point `json:"points"`
	Summary timeseries.Summary `json:"summary"`
}

// Series buckets the scoped events into a dense volume series.
func (s *Service) Series(projectIDs []int, kind timeseries.EventKind, g timeseries.Granularity, from, to time.Time) (SeriesResult, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return SeriesResult{}, err
	}
	instants, err := eventInstants(d, kind)
	if err != nil {
		return SeriesResult{}, err
	}
	points, err := timeseries.Series(instants, from, to, g, s.cfg.Location)
	if err != nil {
		return SeriesResult{}, err
	}
	return SeriesResult{Points: points, Summary: timeseries.Summarize(points)}, nil
}

// Benchmarks counts scoped events over the fixed benchmark windows.
func (s *Service) Benchmarks(projectIDs []int, kind timeseries.EventKind, now time.Time) (timeseries.Benchmarks, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return timeseries.Benchmarks{}, err
	}
	instants, err := eventInstants(d, kind)
	if err != nil {
		return timeseries.Benchmarks{}, err
	}
	return timeseries.BenchmarksAt(instants, now, s.cfg.Location), nil
}

// Funnel composes per-project funnel rows over the scoped events.
func (s *Service) Funnel(projectIDs []int, from, to time.Time) ([]cohort.FunnelRow, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	return cohort.Funnel(d, from, to, s.cfg.Funnel)
}

// SessionInsights rebuilds sessions from the scoped click stream and
// summarizes them. topN <= 0 uses the configured default.
func (s *Service) SessionInsights(projectIDs []int, topN int) (session.Insights, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return session.Insights{}, err
	}
	sessions, err := session.Build(d.Clicks, d.ObjectNames(), s.cfg.SessionGap)
	if err != nil {
		return session.Insights{}, err
	}
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	return session.Summarize(sessions, topN)
}

// TopObjects ranks scoped objects by engagement. topN <= 0 uses the
// configured default.
func (s *Service) TopObjects(projectIDs []int, topN int, now time.Time) ([]attribution.ObjectRow, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	sessions, err := session.Build(d.Clicks, d.ObjectNames(), s.cfg.SessionGap)
	if err != nil {
		return nil, err
	}
	rows, err := attribution.Objects(d, sessions, now, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	return truncate(rows, s.topN(topN)), nil
}

// TopScenes ranks scoped scenes by rolled-up engagement.
func (s *Service) TopScenes(projectIDs []int, topN int, now time.Time) ([]attribution.SceneRow, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	sessions, err := session.Build(d.Clicks, d.ObjectNames(), s.cfg.SessionGap)
	if err != nil {
		return nil, err
	}
	rows, err := attribution.Scenes(d, sessions, now, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	return truncate(rows, s.topN(topN)), nil
}

// ProjectAttribution rolls click metrics up to every owning project.
func (s *Service) ProjectAttribution(projectIDs []int, now time.Time) ([]attribution.ProjectRow, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	return attribution.Projects(d, now, s.cfg.Location)
}

// GeoPoints returns heat points for scoped projects with coordinates.
func (s *Service) GeoPoints(projectIDs []int, now time.Time) ([]attribution.GeoPoint, error) {
	d, err := s.scoped(projectIDs)
	if err != nil {
		return nil, err
	}
	return attribution.Geo(d, now, s.cfg.Location)
}

func (s *Service) topN(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.TopN
}

func truncate[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func eventInstants(d *dataset.Dataset, kind timeseries.EventKind) ([]time.Time, error) {
	if _, err := timeseries.ParseEventKind(string(kind)); err != nil {
		return nil, err
	}
	var instants []time.Time
	switch kind {
	case timeseries.Scans:
		for _, scan := range d.Scans {
			instants = append(instants, scan.At)
		}
	case timeseries.Clicks:
		for _, click := range d.Clicks {
			instants = append(instants, click.At)
		}
	}
	return instants, nil
}
