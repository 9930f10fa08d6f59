// Package attribution distributes click metrics across the project,
// scene, and object hierarchy. A click fans out into every project that
// transitively owns its object; shared ownership is never collapsed to a
// single attribution.
package attribution

import (
	"errors"
	"sort"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
)

// ErrNilDataset indicates a caller bug: attribution requires a scoped
// dataset.
var ErrNilDataset = errors.New("attribution: nil dataset")

// ObjectRow holds one AR object's engagement metrics.
type ObjectRow struct {
	ObjectID           int           `json:"object_id"`
	ObjectName         string        `json:"object_name"`
	SceneID            int           `json:"scene_id"`
	TotalClicks        int           `json:"total_clicks"`
	Last30Days         int           `json:"last_30_days"`
	Last12Months       int           `json:"last_12_months"`
	ClickThroughRate   float64       `json:"click_through_rate"`
	ClickThroughRate30 float64       `json:"click_through_rate_30"`
	AvgDwell           time.Duration `json:"avg_dwell"`
}

// Objects computes per-object click and dwell metrics. Click-through
// rates divide by the scans of the object's owning projects (summed with
// fan-out); dwell averages the time from an object's session step to the
// next step, excluding each session's last step.
func Objects(d *dataset.Dataset, sessions []session.Session, now time.Time, loc *time.Location) ([]ObjectRow, error) {
	if d == nil {
		return nil, ErrNilDataset
	}

	windows := timeseries.WindowsAt(now, loc)

	rows := make([]ObjectRow, 0, len(d.Objects))
	position := make(map[int]int, len(d.Objects))
	for _, obj := range d.Objects {
		if obj.SceneID == nil {
			continue
		}
		position[obj.ID] = len(rows)
		rows = append(rows, ObjectRow{ObjectID: obj.ID, ObjectName: obj.Name, SceneID: *obj.SceneID})
	}

	for _, click := range d.Clicks {
		i, ok := position[click.ObjectID]
		if !ok {
			continue
		}
		rows[i].TotalClicks++
		if windows.Last30Days.Contains(click.At) {
			rows[i].Last30Days++
		}
		if windows.Last12Months.Contains(click.At) {
			rows[i].Last12Months++
		}
	}

	scanTotals := make(map[int]int, len(d.Projects))
	scanTotals30 := make(map[int]int, len(d.Projects))
	for _, scan := range d.Scans {
		for _, id := range d.ScanOwners(scan) {
			scanTotals[id]++
			if windows.Last30Days.Contains(scan.At) {
				scanTotals30[id]++
			}
		}
	}

	dwellTotal := make(map[int]time.Duration)
	dwellCount := make(map[int]int)
	for _, sess := range sessions {
		for j := 0; j < len(sess.Steps)-1; j++ {
			step := sess.Steps[j]
			dwellTotal[step.ObjectID] += sess.Steps[j+1].At.Sub(step.At)
			dwellCount[step.ObjectID]++
		}
	}

	for i := range rows {
		row := &rows[i]
		scans, scans30 := 0, 0
		for _, id := range d.Index.ObjectProjects[row.ObjectID] {
			scans += scanTotals[id]
			scans30 += scanTotals30[id]
		}
		row.ClickThroughRate = ratio(row.TotalClicks, scans)
		row.ClickThroughRate30 = ratio(row.Last30Days, scans30)
		if count := dwellCount[row.ObjectID]; count > 0 {
			row.AvgDwell = dwellTotal[row.ObjectID] / time.Duration(count)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalClicks > rows[j].TotalClicks })
	return rows, nil
}

// SceneRow rolls object metrics up to the owning scene.
type SceneRow struct {
	SceneID      int    `json:"scene_id"`
	SceneName    string `json:"scene_name"`
	TotalClicks  int    `json:"total_clicks"`
	Last30Days   int    `json:"last_30_days"`
	Last12Months int    `json:"last_12_months"`
	Objects      int    `json:"objects"`
}

// Scenes aggregates object metrics per scene, ordered by total clicks
// descending with scene input order on ties.
func Scenes(d *dataset.Dataset, sessions []session.Session, now time.Time, loc *time.Location) ([]SceneRow, error) {
	objects, err := Objects(d, sessions, now, loc)
	if err != nil {
		return nil, err
	}

	rows := make([]SceneRow, 0, len(d.Scenes))
	position := make(map[int]int, len(d.Scenes))
	for _, scene := range d.Scenes {
		position[scene.ID] = len(rows)
		rows = append(rows, SceneRow{SceneID: scene.ID, SceneName: scene.Name})
	}
	for _, obj := range objects {
		i, ok := position[obj.SceneID]
		if !ok {
			continue
		}
		rows[i].TotalClicks += obj.TotalClicks
		rows[i].Last30Days += obj.Last30Days
		rows[i].Last12Months += obj.Last12Months
		rows[i].Objects++
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalClicks > rows[j].TotalClicks })
	return rows, nil
}

// ProjectRow rolls click metrics up to every owning project.
type ProjectRow struct {
	ProjectID    int    `json:"project_id"`
	ProjectName  string `json:"project_name"`
	TotalClicks  int    `json:"total_clicks"`
	Last30Days   int    `json:"last_30_days"`
	Last12Months int    `json:"last_12_months"`
}

// Projects distributes every click into all owning projects and tallies
// the trailing windows.
func Projects(d *dataset.Dataset, now time.Time, loc *time.Location) ([]ProjectRow, error) {
	if d == nil {
		return nil, ErrNilDataset
	}

	windows := timeseries.WindowsAt(now, loc)
	rows := make([]ProjectRow, len(d.Projects))
	position := make(map[int]int, len(d.Projects))
	for i, proj := range d.Projects {
		rows[i] = ProjectRow{ProjectID: proj.ID, ProjectName: proj.Name}
		position[proj.ID] = i
	}

	for _, click := range d.Clicks {
		for _, id := range d.ClickOwners(click) {
			row := &rows[position[id]]
			row.TotalClicks++
			if windows.Last30Days.Contains(click.At) {
				row.Last30Days++
			}
			if windows.Last12Months.Contains(click.At) {
				row.Last12Months++
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalClicks > rows[j].TotalClicks })
	return rows, nil
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
