package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lumenlabs/pulse/internal/domain/analytics"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
)

// toolset binds tool handlers to the analytics service and a clock.
type toolset struct {
	svc AnalyticsService
	now func() time.Time
}

func registerTools(server *sdkmcp.Server, ts *toolset) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List every project in the loaded dataset so a scope can be selected",
	}, ts.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "scope_summary",
		Description: "Report entity and event counts for a project scope",
	}, ts.scopeSummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_ranking",
		Description: "Rank scoped projects by event volume across total, month, week, and day windows",
	}, ts.projectRanking)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "event_series",
		Description: "Bucket scoped events into a dense daily, weekly, or monthly volume series",
	}, ts.eventSeries)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "benchmarks",
		Description: "Count scoped events over the fixed benchmark windows (today, yesterday, weeks, months, trailing)",
	}, ts.benchmarks)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_funnel",
		Description: "Compute per-project scan-to-click funnel rows with cohort rates over a date range",
	}, ts.projectFunnel)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "session_insights",
		Description: "Reconstruct user sessions from scoped clicks and summarize durations, entries, exits, transitions, and paths",
	}, ts.sessionInsights)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "top_objects",
		Description: "Rank scoped AR objects by clicks with click-through rates and average dwell time",
	}, ts.topObjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "top_scenes",
		Description: "Rank scoped scenes by click volume rolled up from their AR objects",
	}, ts.topScenes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_attribution",
		Description: "Attribute scoped click volume to every owning project",
	}, ts.projectAttribution)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "geo_points",
		Description: "Return click heat points for scoped projects that carry coordinates",
	}, ts.geoPoints)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload_dataset",
		Description: "Reload the dataset snapshot from the source database",
	}, ts.reloadDataset)
}

func (t *toolset) listProjects(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	projects, err := t.svc.ListProjects()
	if err != nil {
		return nil, ListProjectsResult{}, mapError(err)
	}
	return nil, ListProjectsResult{Projects: projects}, nil
}

func (t *toolset) scopeSummary(_ context.Context, _ *sdkmcp.CallToolRequest, params ScopeSummaryParams) (*sdkmcp.CallToolResult, analytics.ScopeSummary, error) {
	summary, err := t.svc.Summary(params.ProjectIDs)
	if err != nil {
		return nil, analytics.ScopeSummary{}, mapError(err)
	}
	return nil, summary, nil
}

func (t *toolset) projectRanking(_ context.Context, _ *sdkmcp.CallToolRequest, params RankingParams) (*sdkmcp.CallToolResult, RankingResult, error) {
	kind, err := timeseries.ParseEventKind(params.Event)
	if err != nil {
		return nil, RankingResult{}, mapError(err)
	}
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, RankingResult{}, err
	}
	rows, err := t.svc.Ranking(params.ProjectIDs, kind, now)
	if err != nil {
		return nil, RankingResult{}, mapError(err)
	}
	return nil, RankingResult{Rows: rows}, nil
}

func (t *toolset) eventSeries(_ context.Context, _ *sdkmcp.CallToolRequest, params SeriesParams) (*sdkmcp.CallToolResult, analytics.SeriesResult, error) {
	kind, err := timeseries.ParseEventKind(params.Event)
	if err != nil {
		return nil, analytics.SeriesResult{}, mapError(err)
	}
	g, err := timeseries.ParseGranularity(params.Granularity)
	if err != nil {
		return nil, analytics.SeriesResult{}, mapError(err)
	}
	from, to, err := parseRange(params.From, params.To)
	if err != nil {
		return nil, analytics.SeriesResult{}, err
	}
	result, err := t.svc.Series(params.ProjectIDs, kind, g, from, to)
	if err != nil {
		return nil, analytics.SeriesResult{}, mapError(err)
	}
	return nil, result, nil
}

func (t *toolset) benchmarks(_ context.Context, _ *sdkmcp.CallToolRequest, params BenchmarksParams) (*sdkmcp.CallToolResult, timeseries.Benchmarks, error) {
	kind, err := timeseries.ParseEventKind(params.Event)
	if err != nil {
		return nil, timeseries.Benchmarks{}, mapError(err)
	}
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, timeseries.Benchmarks{}, err
	}
	b, err := t.svc.Benchmarks(params.ProjectIDs, kind, now)
	if err != nil {
		return nil, timeseries.Benchmarks{}, mapError(err)
	}
	return nil, b, nil
}

func (t *toolset) projectFunnel(_ context.Context, _ *sdkmcp.CallToolRequest, params FunnelParams) (*sdkmcp.CallToolResult, FunnelResult, error) {
	from, to, err := parseRange(params.From, params.To)
	if err != nil {
		return nil, FunnelResult{}, err
	}
	rows, err := t.svc.Funnel(params.ProjectIDs, from, to)
	if err != nil {
		return nil, FunnelResult{}, mapError(err)
	}
	return nil, FunnelResult{Rows: rows}, nil
}

func (t *toolset) sessionInsights(_ context.Context, _ *sdkmcp.CallToolRequest, params SessionInsightsParams) (*sdkmcp.CallToolResult, SessionInsightsResult, error) {
	insights, err := t.svc.SessionInsights(params.ProjectIDs, params.TopN)
	if err != nil {
		return nil, SessionInsightsResult{}, mapError(err)
	}
	return nil, SessionInsightsResult{Insights: insights}, nil
}

func (t *toolset) topObjects(_ context.Context, _ *sdkmcp.CallToolRequest, params TopObjectsParams) (*sdkmcp.CallToolResult, TopObjectsResult, error) {
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, TopObjectsResult{}, err
	}
	rows, err := t.svc.TopObjects(params.ProjectIDs, params.TopN, now)
	if err != nil {
		return nil, TopObjectsResult{}, mapError(err)
	}
	return nil, TopObjectsResult{Objects: rows}, nil
}

func (t *toolset) topScenes(_ context.Context, _ *sdkmcp.CallToolRequest, params TopScenesParams) (*sdkmcp.CallToolResult, TopScenesResult, error) {
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, TopScenesResult{}, err
	}
	rows, err := t.svc.TopScenes(params.ProjectIDs, params.TopN, now)
	if err != nil {
		return nil, TopScenesResult{}, mapError(err)
	}
	return nil, TopScenesResult{Scenes: rows}, nil
}

func (t *toolset) projectAttribution(_ context.Context, _ *sdkmcp.CallToolRequest, params ProjectAttributionParams) (*sdkmcp.CallToolResult, ProjectAttributionResult, error) {
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, ProjectAttributionResult{}, err
	}
	rows, err := t.svc.ProjectAttribution(params.ProjectIDs, now)
	if err != nil {
		return nil, ProjectAttributionResult{}, mapError(err)
	}
	return nil, ProjectAttributionResult{Projects: rows}, nil
}

func (t *toolset) geoPoints(_ context.Context, _ *sdkmcp.CallToolRequest, params GeoPointsParams) (*sdkmcp.CallToolResult, GeoPointsResult, error) {
	now, err := parseInstant(params.Now, t.now)
	if err != nil {
		return nil, GeoPointsResult{}, err
	}
	points, err := t.svc.GeoPoints(params.ProjectIDs, now)
	if err != nil {
		return nil, GeoPointsResult{}, mapError(err)
	}
	return nil, GeoPointsResult{Points: points}, nil
}

func (t *toolset) reloadDataset(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ReloadDatasetParams) (*sdkmcp.CallToolResult, ReloadDatasetResult, error) {
	if err := t.svc.Reload(ctx); err != nil {
		return nil, ReloadDatasetResult{}, mapError(err)
	}
	projects, err := t.svc.ListProjects()
	if err != nil {
		return nil, ReloadDatasetResult{}, mapError(err)
	}
	return nil, ReloadDatasetResult{Status: "ok", Projects: len(projects)}, nil
}

// parseInstant parses an optional RFC 3339 instant, falling back to the
// clock when the argument is omitted.
func parseInstant(raw string, now func() time.Time) (time.Time, error) {
	if raw == "" {
		return now(), nil
	}
	instant, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &APIError{
			Code:         "INVALID_TIMESTAMP",
			Message:      "timestamps must be RFC 3339",
			Details:      raw,
			RecoveryHint: "Use a format like 2025-04-01T00:00:00Z",
		}
	}
	return instant, nil
}

func parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, &APIError{
			Code:         "MISSING_RANGE",
			Message:      "from and to are required",
			RecoveryHint: "Provide both range bounds as RFC 3339 timestamps",
		}
	}
	from, err := time.Parse(time.RFC3339, rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, &APIError{
			Code:    "INVALID_TIMESTAMP",
			Message: "timestamps must be RFC 3339",
			Details: rawFrom,
		}
	}
	to, err := time.Parse(time.RFC3339, rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, &APIError{
			Code:    "INVALID_TIMESTAMP",
			Message: "timestamps must be RFC 3339",
			Details: rawTo,
		}
	}
	return from, to, nil
}
