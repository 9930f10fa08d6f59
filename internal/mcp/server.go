// Package mcp exposes the analytics service as an MCP tool surface so
// dashboard agents can query it over stdio or HTTP.
package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lumenlabs/pulse/internal/domain/analytics"
	"github.com/lumenlabs/pulse/internal/domain/attribution"
	"github.com/lumenlabs/pulse/internal/domain/cohort"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
)

// AnalyticsService defines the analytics operations needed by MCP.
type AnalyticsService interface {
	Reload(ctx context.Context) error
	ListProjects() ([]analytics.ProjectInfo, error)
	Summary(projectIDs []int) (analytics.ScopeSummary, error)
	Ranking(projectIDs []int, kind timeseries.EventKind, now time.Time) ([]timeseries.RankingRow, error)
	Series(projectIDs []int, kind timeseries.EventKind, g timeseries.Granularity, from, to time.Time) (analytics.SeriesResult, error)
	Benchmarks(projectIDs []int, kind timeseries.EventKind, now time.Time) (timeseries.Benchmarks, error)
	Funnel(projectIDs []int, from, to time.Time) ([]cohort.FunnelRow, error)
	SessionInsights(projectIDs []int, topN int) (session.Insights, error)
	TopObjects(projectIDs []int, topN int, now time.Time) ([]attribution.ObjectRow, error)
	TopScenes(projectIDs []int, topN int, now time.Time) ([]attribution.SceneRow, error)
	ProjectAttribution(projectIDs []int, now time.Time) ([]attribution.ProjectRow, error)
	GeoPoints(projectIDs []int, now time.Time) ([]attribution.GeoPoint, error)
}

// Config contains server configuration.
type Config struct {
	Service AnalyticsService
	Logger  *slog.Logger

	// Now supplies the reference instant for trailing windows.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and
// doc resources.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pulse",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	registerTools(server, &toolset{svc: cfg.Service, now: now})

	return server
}
