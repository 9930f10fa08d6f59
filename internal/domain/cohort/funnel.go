package cohort

import (
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// RateFunc derives a funnel ratio from a numerator and denominator.
type RateFunc func(numerator, denominator int) float64

// Options overrides the funnel ratio definitions. The defaults are
// clicks/scans and newUsers/activeUsers, both 0 on a zero denominator;
// the exact formulas of the upstream dashboard are not confirmed, so
// deployments can swap them here.
type Options struct {
	ClickThroughRate RateFunc
	ActivationRate   RateFunc
}

func defaultRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

func (o Options) clickThroughRate() RateFunc {
	if o.ClickThroughRate != nil {
		return o.ClickThroughRate
	}
	return defaultRate
}

func (o Options) activationRate() RateFunc {
	if o.ActivationRate != nil {
		return o.ActivationRate
	}
	return defaultRate
}

// FunnelRow is one project's acquisition funnel over a date range.
type FunnelRow struct {
	ProjectID        int     `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	Scans            int     `json:"scans"`
	Clicks           int     `json:"clicks"`
	NewUsers         int     `json:"new_users"`
	ActiveUsers      int     `json:"active_users"`
	ClickThroughRate float64 `json:"click_through_rate"`
	ActivationRate   float64 `json:"activation_rate"`
}

// Funnel composes per-project funnel rows over [from, to]. Events count
// toward every owning project whose window contains them; user cohorts
// are per project, classified against the scope-local first click.
func Funnel(d *dataset.Dataset, from, to time.Time, opts Options) ([]FunnelRow, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	rows := make([]FunnelRow, len(d.Projects))
	position := make(map[int]int, len(d.Projects))
	for i, proj := range d.Projects {
		rows[i] = FunnelRow{ProjectID: proj.ID, ProjectName: proj.Name}
		position[proj.ID] = i
	}

	for _, scan := range d.Scans {
		if !inRange(scan.At, from, to) {
			continue
		}
		for _, id := range d.ScanOwners(scan) {
			rows[position[id]].Scans++
		}
	}

	activeByProject := make([]map[string]bool, len(rows))
	for i := range activeByProject {
		activeByProject[i] = make(map[string]bool)
	}
	for _, click := range d.Clicks {
		if !inRange(click.At, from, to) {
			continue
		}
		for _, id := range d.ClickOwners(click) {
			row := &rows[position[id]]
			row.Clicks++
			if click.UserKey != "" {
				activeByProject[position[id]][click.UserKey] = true
			}
		}
	}

	ctr := opts.clickThroughRate()
	act := opts.activationRate()
	for i := range rows {
		row := &rows[i]
		row.ActiveUsers = len(activeByProject[i])
		for user := range activeByProject[i] {
			if IsNew(d, user, from, to) {
				row.NewUsers++
			}
		}
		row.ClickThroughRate = ctr(row.Clicks, row.Scans)
		row.ActivationRate = act(row.NewUsers, row.ActiveUsers)
	}

	return rows, nil
}
