package attribution

import (
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// GeoPoint joins a project's click total to its stored coordinate pair.
type GeoPoint struct {
	ProjectID   int     `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Clicks      int     `json:"clicks"`
}

// Geo returns heat points for projects that carry coordinates. Projects
// without a coordinate pair are excluded here but still appear in the
// tabular project rollup.
func Geo(d *dataset.Dataset, now time.Time, loc *time.Location) ([]GeoPoint, error) {
	rows, err := Projects(d, now, loc)
	if err != nil {
		return nil, err
	}

	var points []GeoPoint
	for _, row := range rows {
		proj := d.ProjectByID(row.ProjectID)
		if proj == nil || !proj.HasCoordinates() {
			continue
		}
		points = append(points, GeoPoint{
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			Latitude:    *proj.Latitude,
			Longitude:   *proj.Longitude,
			Clicks:      row.TotalClicks,
		})
	}
	return points, nil
}
