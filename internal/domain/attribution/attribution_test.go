package attribution_test

import (
	"testing"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/attribution"
	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

var now = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

// fixture: two projects share scene 5; project 1 also owns scene 6 alone.
// Objects 100, 101 live in scene 5; object 102 in scene 6.
func fixture() *dataset.Dataset {
	d := &dataset.Dataset{
		Projects: []dataset.Project{
			{
				ID: 1, Name: "P1",
				LightIDs:  []int{10},
				SceneRefs: []dataset.SceneRef{{SceneID: 5}, {SceneID: 6}},
				Latitude:  floatPtr(52.52), Longitude: floatPtr(13.405),
			},
			{
				ID: 2, Name: "P2",
				LightIDs:  []int{11},
				SceneRefs: []dataset.SceneRef{{SceneID: 5}},
			},
		},
		Lights: []dataset.Light{{ID: 10}, {ID: 11}},
		Scenes: []dataset.Scene{{ID: 5, Name: "Atrium"}, {ID: 6, Name: "Roof"}},
		Objects: []dataset.ArObject{
			{ID: 100, Name: "orb", SceneID: intPtr(5)},
			{ID: 101, Name: "ring", SceneID: intPtr(5)},
			{ID: 102, Name: "beam", SceneID: intPtr(6)},
		},
	}
	return d
}

func TestObjects_ClicksAndWindows(t *testing.T) {
	d := fixture()
	recent := now.Add(-24 * time.Hour)
	old := now.AddDate(0, -2, 0)
	ancient := now.AddDate(-2, 0, 0)
	d.Clicks = []dataset.ClickEvent{
		{ObjectID: 100, At: recent},
		{ObjectID: 100, At: old},
		{ObjectID: 100, At: ancient},
		{ObjectID: 101, At: recent},
	}
	d.Index = dataset.BuildIndices(d)

	rows, err := attribution.Objects(d, nil, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	orb := rows[0]
	require.Equal(t, 100, orb.ObjectID)
	require.Equal(t, 3, orb.TotalClicks)
	require.Equal(t, 1, orb.Last30Days)
	require.Equal(t, 2, orb.Last12Months)

	// zero clicks still yields a row, ranked last
	require.Equal(t, 102, rows[2].ObjectID)
	require.Zero(t, rows[2].TotalClicks)
}

func TestObjects_ClickThroughAgainstOwnerScans(t *testing.T) {
	d := fixture()
	recent := now.Add(-24 * time.Hour)
	// 4 scans for P1's light, 1 for P2's: object 100 (owned by both)
	// divides by 5, object 102 (P1 only) divides by 4.
	for i := 0; i < 4; i++ {
		d.Scans = append(d.Scans, dataset.ScanEvent{LightID: 10, At: recent})
	}
	d.Scans = append(d.Scans, dataset.ScanEvent{LightID: 11, At: recent})
	d.Clicks = []dataset.ClickEvent{
		{ObjectID: 100, At: recent},
		{ObjectID: 102, At: recent},
	}
	d.Index = dataset.BuildIndices(d)

	rows, err := attribution.Objects(d, nil, now, time.UTC)
	require.NoError(t, err)

	byID := map[int]attribution.ObjectRow{}
	for _, row := range rows {
		byID[row.ObjectID] = row
	}
	require.InDelta(t, 0.2, byID[100].ClickThroughRate, 1e-9)
	require.InDelta(t, 0.25, byID[102].ClickThroughRate, 1e-9)
	require.InDelta(t, 0.2, byID[100].ClickThroughRate30, 1e-9)
}

func TestObjects_DwellExcludesLastStep(t *testing.T) {
	d := fixture()
	d.Index = dataset.BuildIndices(d)
	base := now.Add(-time.Hour)

	sessions := []session.Session{{
		UserKey: "u1",
		Steps: []session.Step{
			{ObjectID: 100, ObjectName: "orb", At: base},
			{ObjectID: 101, ObjectName: "ring", At: base.Add(2 * time.Minute)},
			{ObjectID: 100, ObjectName: "orb", At: base.Add(3 * time.Minute)},
			{ObjectID: 101, ObjectName: "ring", At: base.Add(9 * time.Minute)},
		},
	}}

	rows, err := attribution.Objects(d, sessions, now, time.UTC)
	require.NoError(t, err)
	byID := map[int]attribution.ObjectRow{}
	for _, row := range rows {
		byID[row.ObjectID] = row
	}
	// orb dwells 2m and 6m, mean 4m; ring's only completed dwell is 1m,
	// its final step has no dwell value.
	require.Equal(t, 4*time.Minute, byID[100].AvgDwell)
	require.Equal(t, time.Minute, byID[101].AvgDwell)
}

func TestScenes_RollsUpObjects(t *testing.T) {
	d := fixture()
	recent := now.Add(-24 * time.Hour)
	d.Clicks = []dataset.ClickEvent{
		{ObjectID: 100, At: recent},
		{ObjectID: 101, At: recent},
		{ObjectID: 102, At: recent},
	}
	d.Index = dataset.BuildIndices(d)

	rows, err := attribution.Scenes(d, nil, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 5, rows[0].SceneID)
	require.Equal(t, 2, rows[0].TotalClicks)
	require.Equal(t, 2, rows[0].Objects)
	require.Equal(t, 1, rows[1].TotalClicks)
}

func TestProjects_SharedClickFansOut(t *testing.T) {
	d := fixture()
	recent := now.Add(-24 * time.Hour)
	d.Clicks = []dataset.ClickEvent{{ObjectID: 100, At: recent}}
	d.Index = dataset.BuildIndices(d)

	rows, err := attribution.Projects(d, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// the single click on the shared object counts for both projects
	require.Equal(t, 1, rows[0].TotalClicks)
	require.Equal(t, 1, rows[1].TotalClicks)
}

func TestGeo_SkipsProjectsWithoutCoordinates(t *testing.T) {
	d := fixture()
	recent := now.Add(-24 * time.Hour)
	d.Clicks = []dataset.ClickEvent{{ObjectID: 100, At: recent}}
	d.Index = dataset.BuildIndices(d)

	points, err := attribution.Geo(d, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, 1, points[0].ProjectID)
	require.Equal(t, 52.52, points[0].Latitude)
	require.Equal(t, 1, points[0].Clicks)

	rows, err := attribution.Projects(d, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 2) // P2 stays in the tabular rollup
}

func TestObjects_NilDataset(t *testing.T) {
	_, err := attribution.Objects(nil, nil, now, time.UTC)
	require.ErrorIs(t, err, attribution.ErrNilDataset)
}
