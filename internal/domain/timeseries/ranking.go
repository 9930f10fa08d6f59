package timeseries

import (
	"fmt"
	"sort"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// EventKind selects which event stream a ranking is computed over.
type EventKind string

const (
	Scans  EventKind = "scans"
	Clicks EventKind = "clicks"
)

// ParseEventKind validates an event kind string from an external caller.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case Scans, Clicks:
		return EventKind(s), nil
	default:
		return "", fmt.Errorf("timeseries: unknown event kind %q", s)
	}
}

// RankingRow is one project's volume over the fixed benchmark windows.
type RankingRow struct {
	ProjectID   int    `json:"project_id"`
	ProjectName string `json:"project_name"`
	Total       int    `json:"total"`
	ThisMonth   int    `json:"this_month"`
	LastMonth   int    `json:"last_month"`
	ThisWeek    int    `json:"this_week"`
	LastWeek    int    `json:"last_week"`
	Today       int    `json:"today"`
	Yesterday   int    `json:"yesterday"`
}

func (r RankingRow) allZero() bool {
	return r.Total == 0 && r.ThisMonth == 0 && r.LastMonth == 0 &&
		r.ThisWeek == 0 && r.LastWeek == 0 && r.Today == 0 && r.Yesterday == 0
}

// ProjectRanking computes per-project volume rows over the scoped
// dataset's scans or clicks, attributing an event to every owning project
// whose window contains it. Rows are ordered total desc, then this-month
// desc, then this-week desc, then today desc; full ties preserve project
// input order. Rows with zero volume in every window are dropped.
func ProjectRanking(d *dataset.Dataset, kind EventKind, now time.Time, loc *time.Location) ([]RankingRow, error) {
	if d == nil {
		return nil, fmt.Errorf("timeseries: nil dataset")
	}
	if _, err := ParseEventKind(string(kind)); err != nil {
		return nil, err
	}

	windows := WindowsAt(now, loc)
	rows := make(map[int]*RankingRow, len(d.Projects))
	order := make([]int, 0, len(d.Projects))
	for _, proj := range d.Projects {
		rows[proj.ID] = &RankingRow{ProjectID: proj.ID, ProjectName: proj.Name}
		order = append(order, proj.ID)
	}

	tally := func(owners []int, at time.Time) {
		for _, id := range owners {
			row, ok := rows[id]
			if !ok {
				continue
			}
			row.Total++
			if windows.ThisMonth.Contains(at) {
				row.ThisMonth++
			}
			if windows.LastMonth.Contains(at) {
				row.LastMonth++
			}
			if windows.ThisWeek.Contains(at) {
				row.ThisWeek++
			}
			if windows.LastWeek.Contains(at) {
				row.LastWeek++
			}
			if windows.Today.Contains(at) {
				row.Today++
			}
			if windows.Yesterday.Contains(at) {
				row.Yesterday++
			}
		}
	}

	switch kind {
	case Scans:
		for _, scan := range d.Scans {
			tally(d.ScanOwners(scan), scan.At.In(loc))
		}
	case Clicks:
		for _, click := range d.Clicks {
			tally(d.ClickOwners(click), click.At.In(loc))
		}
	}

	out := make([]RankingRow, 0, len(order))
	for _, id := range order {
		if row := rows[id]; !row.allZero() {
			out = append(out, *row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.ThisMonth != b.ThisMonth {
			return a.ThisMonth > b.ThisMonth
		}
		if a.ThisWeek != b.ThisWeek {
			return a.ThisWeek > b.ThisWeek
		}
		return a.Today > b.Today
	})
	return out, nil
}

// RawTotals returns per-project total event counts, all-zero projects
// included, for consumers that need totals outside the ranking view.
func RawTotals(d *dataset.Dataset, kind EventKind) (map[int]int, error) {
	if d == nil {
		return nil, fmt.Errorf("timeseries: nil dataset")
	}
	if _, err := ParseEventKind(string(kind)); err != nil {
		return nil, err
	}

	totals := make(map[int]int, len(d.Projects))
	for _, proj := range d.Projects {
		totals[proj.ID] = 0
	}
	switch kind {
	case Scans:
		for _, scan := range d.Scans {
			for _, id := range d.ScanOwners(scan) {
				totals[id]++
			}
		}
	case Clicks:
		for _, click := range d.Clicks {
			for _, id := range d.ClickOwners(click) {
				totals[id]++
			}
		}
	}
	return totals, nil
}
