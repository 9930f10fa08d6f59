package mcp

import (
	"github.com/lumenlabs/pulse/internal/domain/analytics"
	"github.com/lumenlabs/pulse/internal/domain/attribution"
	"github.com/lumenlabs/pulse/internal/domain/cohort"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
)

// Scoping is explicit on every query tool: an empty project_ids list
// selects nothing rather than everything.

type ListProjectsParams struct{}

type ScopeSummaryParams struct {
	ProjectIDs []int `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
}

type RankingParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	Event      string `json:"event" jsonschema:"event kind to rank by (scans or clicks)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for trailing windows, RFC 3339 (defaults to the current time)"`
}

type SeriesParams struct {
	ProjectIDs  []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	Event       string `json:"event" jsonschema:"event kind to bucket (scans or clicks)"`
	Granularity string `json:"granularity" jsonschema:"bucket size (daily, weekly, or monthly)"`
	From        string `json:"from" jsonschema:"range start, RFC 3339"`
	To          string `json:"to" jsonschema:"range end, RFC 3339"`
}

type BenchmarksParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	Event      string `json:"event" jsonschema:"event kind to count (scans or clicks)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for calendar windows, RFC 3339 (defaults to the current time)"`
}

type FunnelParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	From       string `json:"from" jsonschema:"range start, RFC 3339"`
	To         string `json:"to" jsonschema:"range end, RFC 3339"`
}

type SessionInsightsParams struct {
	ProjectIDs []int `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	TopN       int   `json:"top_n,omitempty" jsonschema:"maximum entries per ranking (defaults to the server setting)"`
}

type TopObjectsParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	TopN       int    `json:"top_n,omitempty" jsonschema:"maximum rows (defaults to the server setting)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for trailing windows, RFC 3339 (defaults to the current time)"`
}

type TopScenesParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	TopN       int    `json:"top_n,omitempty" jsonschema:"maximum rows (defaults to the server setting)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for trailing windows, RFC 3339 (defaults to the current time)"`
}

type ProjectAttributionParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for trailing windows, RFC 3339 (defaults to the current time)"`
}

type GeoPointsParams struct {
	ProjectIDs []int  `json:"project_ids,omitempty" jsonschema:"project ids defining the scope (empty selects nothing)"`
	Now        string `json:"now,omitempty" jsonschema:"reference instant for trailing windows, RFC 3339 (defaults to the current time)"`
}

type ReloadDatasetParams struct{}

type ListProjectsResult struct {
	Projects []analytics.ProjectInfo `json:"projects"`
}

type RankingResult struct {
	Rows []timeseries.RankingRow `json:"rows"`
}

type FunnelResult struct {
	Rows []cohort.FunnelRow `json:"rows"`
}

type TopObjectsResult struct {
	Objects []attribution.ObjectRow `json:"objects"`
}

type TopScenesResult struct {
	Scenes []attribution.SceneRow `json:"scenes"`
}

type ProjectAttributionResult struct {
	Projects []attribution.ProjectRow `json:"projects"`
}

type GeoPointsResult struct {
	Points []attribution.GeoPoint `json:"points"`
}

type ReloadDatasetResult struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

type SessionInsightsResult struct {
	Insights session.Insights `json:"insights"`
}
