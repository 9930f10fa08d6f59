package dataset

import (
	"sort"
	"time"
)

// Indices are the derived ownership and cohort indices of a dataset. They
// are rebuilt in full from the raw lists; there is no incremental update.
type Indices struct {
	// LightProjects maps a light id to every project that lists it.
	LightProjects map[int][]int
	// SceneProjects maps a scene id to every project whose parsed scene
	// references include it.
	SceneProjects map[int][]int
	// ObjectProjects maps an AR object id to its owning projects,
	// transitively through the object's scene.
	ObjectProjects map[int][]int
	// SceneLights maps a scene id to the lights anchored in it through
	// coordinate systems.
	SceneLights map[int][]int
	// FirstClickByUser holds the earliest click instant per non-empty
	// user key, local to the dataset it was built from.
	FirstClickByUser map[string]time.Time
}

// BuildIndices derives the full index bundle from the raw entity and event
// lists. Ownership is many-to-many: a light or object may map to several
// projects, and id lists are deduplicated and sorted ascending.
func BuildIndices(d *Dataset) Indices {
	idx := Indices{
		LightProjects:    make(map[int][]int),
		SceneProjects:    make(map[int][]int),
		ObjectProjects:   make(map[int][]int),
		SceneLights:      make(map[int][]int),
		FirstClickByUser: make(map[string]time.Time),
	}

	for _, proj := range d.Projects {
		for _, lightID := range proj.LightIDs {
			idx.LightProjects[lightID] = append(idx.LightProjects[lightID], proj.ID)
		}
		for _, ref := range proj.SceneRefs {
			idx.SceneProjects[ref.SceneID] = append(idx.SceneProjects[ref.SceneID], proj.ID)
		}
	}

	for _, sys := range d.Systems {
		idx.SceneLights[sys.SceneID] = append(idx.SceneLights[sys.SceneID], sys.LightIDs...)
	}

	for _, obj := range d.Objects {
		if obj.SceneID == nil {
			continue
		}
		owners := idx.SceneProjects[*obj.SceneID]
		if len(owners) == 0 {
			continue
		}
		idx.ObjectProjects[obj.ID] = append(idx.ObjectProjects[obj.ID], owners...)
	}

	for key, ids := range idx.LightProjects {
		idx.LightProjects[key] = sortedUnique(ids)
	}
	for key, ids := range idx.SceneProjects {
		idx.SceneProjects[key] = sortedUnique(ids)
	}
	for key, ids := range idx.ObjectProjects {
		idx.ObjectProjects[key] = sortedUnique(ids)
	}
	for key, ids := range idx.SceneLights {
		idx.SceneLights[key] = sortedUnique(ids)
	}

	for _, click := range d.Clicks {
		if click.UserKey == "" {
			continue
		}
		first, seen := idx.FirstClickByUser[click.UserKey]
		if !seen || click.At.Before(first) {
			idx.FirstClickByUser[click.UserKey] = click.At
		}
	}

	return idx
}

func sortedUnique(ids []int) []int {
	sort.Ints(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}
