package scope_test

import (
	"testing"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/lumenlabs/pulse/internal/domain/scope"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }

// buildFixture returns a dataset with two projects sharing light 10:
// P1 active through January, P2 active through February. Scene 5 belongs
// to P1 only and holds object 100.
func buildFixture() *dataset.Dataset {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	feb1 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	feb28 := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)

	d := &dataset.Dataset{
		Projects: []dataset.Project{
			{
				ID:        1,
				Name:      "P1",
				StartsAt:  timePtr(jan1),
				EndsAt:    timePtr(jan31),
				LightIDs:  []int{10},
				SceneRefs: []dataset.SceneRef{{SceneID: 5, Label: "atrium"}},
			},
			{
				ID:       2,
				Name:     "P2",
				StartsAt: timePtr(feb1),
				EndsAt:   timePtr(feb28),
				LightIDs: []int{10},
			},
		},
		Lights:  []dataset.Light{{ID: 10}},
		Scenes:  []dataset.Scene{{ID: 5, Name: "Atrium"}},
		Objects: []dataset.ArObject{{ID: 100, Name: "orb", SceneID: intPtr(5)}},
	}

	for day := 1; day <= 10; day++ {
		d.Scans = append(d.Scans, dataset.ScanEvent{
			LightID: 10,
			At:      time.Date(2025, 1, day, 12, 0, 0, 0, time.UTC),
		})
	}
	for day := 1; day <= 5; day++ {
		d.Scans = append(d.Scans, dataset.ScanEvent{
			LightID: 10,
			At:      time.Date(2025, 2, day, 12, 0, 0, 0, time.UTC),
		})
	}
	for day := 1; day <= 3; day++ {
		d.Clicks = append(d.Clicks, dataset.ClickEvent{
			ObjectID: 100,
			At:       time.Date(2025, 1, day, 13, 0, 0, 0, time.UTC),
			UserKey:  "u1",
		})
	}
	d.Index = dataset.BuildIndices(d)
	return d
}

func TestApply_NilDataset(t *testing.T) {
	_, err := scope.Apply(nil, []int{1})
	require.ErrorIs(t, err, scope.ErrNilDataset)
}

func TestApply_EmptySelection(t *testing.T) {
	scoped, err := scope.Apply(buildFixture(), nil)
	require.NoError(t, err)
	require.Empty(t, scoped.Projects)
	require.Empty(t, scoped.Scans)
	require.Empty(t, scoped.Clicks)
	require.Empty(t, scoped.Index.FirstClickByUser)
}

func TestApply_ProjectWindowFiltersScans(t *testing.T) {
	scoped, err := scope.Apply(buildFixture(), []int{1})
	require.NoError(t, err)
	// Ten January scans survive; the five February scans fall outside
	// P1's window.
	require.Len(t, scoped.Scans, 10)
	require.Len(t, scoped.Clicks, 3)
}

func TestApply_WindowUnionAcrossOwners(t *testing.T) {
	// Light 10 is shared by P1 (January) and P2 (February). Selecting both
	// keeps a scan when either owner's window contains it.
	scoped, err := scope.Apply(buildFixture(), []int{1, 2})
	require.NoError(t, err)
	require.Len(t, scoped.Scans, 15)
}

func TestApply_FilteredProjectDoesNotLeak(t *testing.T) {
	scoped, err := scope.Apply(buildFixture(), []int{2})
	require.NoError(t, err)
	// P2 owns light 10 but no scenes, so only February scans survive and
	// object 100 leaves the scope entirely.
	require.Len(t, scoped.Scans, 5)
	require.Empty(t, scoped.Clicks)
	require.Empty(t, scoped.Objects)
	require.NotContains(t, scoped.Index.ObjectProjects, 100)
}

func TestApply_Idempotent(t *testing.T) {
	once, err := scope.Apply(buildFixture(), []int{1})
	require.NoError(t, err)
	twice, err := scope.Apply(once, []int{1})
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestApply_RemovingProjectOnlyRemovesEvents(t *testing.T) {
	full, err := scope.Apply(buildFixture(), []int{1, 2})
	require.NoError(t, err)
	reduced, err := scope.Apply(buildFixture(), []int{1})
	require.NoError(t, err)

	require.LessOrEqual(t, len(reduced.Scans), len(full.Scans))
	require.LessOrEqual(t, len(reduced.Clicks), len(full.Clicks))
	require.Subset(t, full.Scans, reduced.Scans)
}

func TestApply_FirstClickIsScopeLocal(t *testing.T) {
	d := buildFixture()
	// An earlier click by u1 on an object outside any selected project
	// must not influence the scoped first-click index.
	d.Objects = append(d.Objects, dataset.ArObject{ID: 200, Name: "stray", SceneID: intPtr(99)})
	d.Clicks = append([]dataset.ClickEvent{{
		ObjectID: 200,
		At:       time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		UserKey:  "u1",
	}}, d.Clicks...)
	d.Index = dataset.BuildIndices(d)

	scoped, err := scope.Apply(d, []int{1})
	require.NoError(t, err)
	require.Equal(t,
		time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		scoped.Index.FirstClickByUser["u1"])
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	d := buildFixture()
	scansBefore := len(d.Scans)
	projectsBefore := len(d.Projects)

	_, err := scope.Apply(d, []int{1})
	require.NoError(t, err)
	require.Len(t, d.Scans, scansBefore)
	require.Len(t, d.Projects, projectsBefore)
}
