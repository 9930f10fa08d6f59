package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pulse answers marketing analytics questions over AR lighting installations.

Mental model:
- Project: a marketing engagement owning lights and scene references, optionally bounded by an active window.
- Scan: a passer-by scanning a light. Click: a user tapping an AR object. Clicks carry a user key; scans are anonymous.
- Scope: every query takes project_ids. An empty list selects nothing. Events outside every owning project's active window are excluded.
- All metrics are recomputed from the loaded snapshot on every call; call reload_dataset to pick up new data.

Typical flow:
1) list_projects to see what exists, then pick a scope.
2) scope_summary to sanity-check the selection size.
3) project_ranking / event_series / benchmarks for volume questions.
4) project_funnel for conversion, session_insights for behaviour, top_objects / top_scenes / geo_points for attribution.

Timestamps are RFC 3339. Tools that take "now" default it to the server clock.

Docs:
- pulse://docs/metrics (metric definitions)
- pulse://docs/scoping (how project scoping and ownership work)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pulse://docs/metrics",
		Name:        "docs_metrics",
		Title:       "Metric definitions",
		Description: "Exact definitions of the rates, windows, and session metrics the tools report.",
		Content: `# Metric definitions

## Funnel rates

- click_through_rate = clicks / scans within the requested range.
- activation_rate = new_users / active_users within the requested range.
- A zero denominator yields a rate of 0, never an error.
- new_users: users whose first click inside the current scope falls inside the range.
- active_users: users with at least one click inside the range.

## Windows

- today / yesterday, this_week / last_week (weeks start Monday), this_month / last_month: calendar windows in the server timezone.
- last_30_days / last_12_months: trailing windows ending at "now".
- Ranking ties break by total, then this_month, then this_week, then today; all-zero rows are dropped.

## Sessions

- A session is a run of one user's clicks where consecutive clicks are at most the inactivity gap apart (default 30 minutes). A gap exactly at the threshold stays in the same session.
- Entry/exit are the first and last objects of a session. Paths collapse consecutive repeats and are capped at five steps.
- Average dwell on an object counts time from a click to the next click in the same session; a session's last step has no dwell.
`,
	},
	{
		URI:         "pulse://docs/scoping",
		Name:        "docs_scoping",
		Title:       "Scoping and ownership",
		Description: "How project selections restrict the dataset and how events attribute to projects.",
		Content: `# Scoping and ownership

## Selection is explicit

Every query tool takes project_ids. An empty list is an empty scope, not "all projects". Use list_projects to discover ids.

## Ownership

- A light can belong to several projects; a scan attributes to every owner whose active window contains it.
- Projects reference scenes by "<sceneId>-<label>" strings; objects belong to projects through their scene. A click attributes to every owning project the same way.
- References without a leading numeric scene id contribute no ownership and are skipped.

## Active windows

A project with starts_at/ends_at only owns events inside that window. When several projects share a light or object, an event survives scoping if at least one selected owner's window contains it.

## Cohorts are scope-local

A user's "first click" is their first click among the scoped events, so new_users can differ between scopes. This keeps cohort counts consistent within any one scope.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
