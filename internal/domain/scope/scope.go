// Package scope restricts a dashboard dataset to a selected set of
// projects and their transitively owned entities and events.
package scope

import (
	"errors"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// ErrNilDataset indicates a caller bug: scoping requires a loaded dataset.
var ErrNilDataset = errors.New("scope: nil dataset")

// Apply returns a new dataset snapshot restricted to the given projects.
//
// Selection is explicit: an empty projectIDs yields an empty scoped
// dataset, not "all projects". Events survive only when at least one
// surviving owning project's active window contains their instant; a
// shared light or object can pass through one owner while being outside
// another owner's window. Derived indices, including the per-user first
// click instant, are rebuilt from the surviving data only. The input
// dataset is never mutated.
func Apply(d *dataset.Dataset, projectIDs []int) (*dataset.Dataset, error) {
	if d == nil {
		return nil, ErrNilDataset
	}

	selected := make(map[int]bool, len(projectIDs))
	for _, id := range projectIDs {
		selected[id] = true
	}

	scoped := &dataset.Dataset{}
	survivors := make(map[int]*dataset.Project)
	memberScenes := make(map[int]bool)
	memberLights := make(map[int]bool)

	for i := range d.Projects {
		proj := d.Projects[i]
		if !selected[proj.ID] {
			continue
		}
		scoped.Projects = append(scoped.Projects, proj)
		for _, lightID := range proj.LightIDs {
			memberLights[lightID] = true
		}
		for _, ref := range proj.SceneRefs {
			memberScenes[ref.SceneID] = true
		}
	}
	for i := range scoped.Projects {
		survivors[scoped.Projects[i].ID] = &scoped.Projects[i]
	}

	for _, scene := range d.Scenes {
		if memberScenes[scene.ID] {
			scoped.Scenes = append(scoped.Scenes, scene)
		}
	}
	for _, sys := range d.Systems {
		if !memberScenes[sys.SceneID] {
			continue
		}
		scoped.Systems = append(scoped.Systems, sys)
		for _, lightID := range sys.LightIDs {
			memberLights[lightID] = true
		}
	}
	for _, light := range d.Lights {
		if memberLights[light.ID] {
			scoped.Lights = append(scoped.Lights, light)
		}
	}
	for _, obj := range d.Objects {
		if obj.SceneID != nil && memberScenes[*obj.SceneID] {
			scoped.Objects = append(scoped.Objects, obj)
		}
	}

	// Ownership indices restricted to the survivors. A project filtered
	// out of the selection must not leak events into the scope even when
	// the global index still lists it.
	restricted := dataset.BuildIndices(scoped)

	for _, scan := range d.Scans {
		if anyOwnerWindowContains(restricted.LightProjects[scan.LightID], scan.At, survivors) {
			scoped.Scans = append(scoped.Scans, scan)
		}
	}
	for _, click := range d.Clicks {
		if anyOwnerWindowContains(restricted.ObjectProjects[click.ObjectID], click.At, survivors) {
			scoped.Clicks = append(scoped.Clicks, click)
		}
	}

	scoped.Index = dataset.BuildIndices(scoped)
	return scoped, nil
}

func anyOwnerWindowContains(owners []int, at time.Time, survivors map[int]*dataset.Project) bool {
	for _, id := range owners {
		if proj, ok := survivors[id]; ok && proj.InWindow(at) {
			return true
		}
	}
	return false
}
