package dataset_test

import (
	"testing"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuildIndices_SharedLightOwnership(t *testing.T) {
	d := &dataset.Dataset{
		Projects: []dataset.Project{
			{ID: 2, LightIDs: []int{10, 11}},
			{ID: 1, LightIDs: []int{10}},
		},
	}

	idx := dataset.BuildIndices(d)
	require.Equal(t, []int{1, 2}, idx.LightProjects[10])
	require.Equal(t, []int{2}, idx.LightProjects[11])
}

func TestBuildIndices_ObjectOwnershipThroughScene(t *testing.T) {
	d := &dataset.Dataset{
		Projects: []dataset.Project{
			{ID: 1, SceneRefs: []dataset.SceneRef{{SceneID: 5, Label: "atrium"}}},
			{ID: 2, SceneRefs: []dataset.SceneRef{{SceneID: 5, Label: "atrium"}}},
		},
		Objects: []dataset.ArObject{
			{ID: 100, Name: "orb", SceneID: intPtr(5)},
			{ID: 101, Name: "floating orb"},               // no scene: unattributable
			{ID: 102, Name: "ghost", SceneID: intPtr(99)}, // scene owned by nobody
		},
	}

	idx := dataset.BuildIndices(d)
	require.Equal(t, []int{1, 2}, idx.ObjectProjects[100])
	require.NotContains(t, idx.ObjectProjects, 101)
	require.NotContains(t, idx.ObjectProjects, 102)
}

func TestBuildIndices_SceneLightsFromSystems(t *testing.T) {
	d := &dataset.Dataset{
		Systems: []dataset.CoordinateSystem{
			{ID: 1, SceneID: 5, LightIDs: []int{10, 11}},
			{ID: 2, SceneID: 5, LightIDs: []int{11, 12}},
		},
	}

	idx := dataset.BuildIndices(d)
	require.Equal(t, []int{10, 11, 12}, idx.SceneLights[5])
}

func TestBuildIndices_FirstClickSkipsAnonymous(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	d := &dataset.Dataset{
		Clicks: []dataset.ClickEvent{
			{ObjectID: 1, At: base.Add(2 * time.Hour), UserKey: "u1"},
			{ObjectID: 1, At: base, UserKey: "u1"},
			{ObjectID: 1, At: base.Add(time.Hour)}, // anonymous
		},
	}

	idx := dataset.BuildIndices(d)
	require.Len(t, idx.FirstClickByUser, 1)
	require.Equal(t, base, idx.FirstClickByUser["u1"])
}
