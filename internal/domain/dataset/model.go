package dataset

import "time"

// MinInstant and MaxInstant bound a project's active window when an
// explicit start or end is absent.
var (
	MinInstant = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxInstant = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// SceneRef is a typed project-to-scene reference, parsed once at ingestion
// from the raw "<sceneId>-<label>" encoding.
type SceneRef struct {
	SceneID int    `json:"scene_id"`
	Label   string `json:"label,omitempty"`
}

// Project is an AR lighting installation campaign. A project owns lights
// directly and scenes through scene references; ownership is not exclusive.
type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	LightIDs    []int      `json:"light_ids,omitempty"`
	SceneRefs   []SceneRef `json:"scene_refs,omitempty"`
	Active      bool       `json:"active"`
	OwnerEmails []string   `json:"owner_emails,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
}

// Window returns the project's active window with absent bounds defaulted.
func (p *Project) Window() (time.Time, time.Time) {
	start, end := MinInstant, MaxInstant
	if p.StartsAt != nil {
		start = *p.StartsAt
	}
	if p.EndsAt != nil {
		end = *p.EndsAt
	}
	return start, end
}

// InWindow reports whether t falls inside the project's active window
// (bounds inclusive).
func (p *Project) InWindow(t time.Time) bool {
	start, end := p.Window()
	return !t.Before(start) && !t.After(end)
}

// HasCoordinates reports whether the project carries a stored coordinate
// pair for geographic output.
func (p *Project) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Light is a physical scan trigger. SystemID links it to a coordinate
// system, and through that to a scene.
type Light struct {
	ID        int      `json:"id"`
	SystemID  *int     `json:"system_id,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Scene is an AR scene. Projects reference it only through SceneRef.
type Scene struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CoordinateSystem anchors a set of lights inside a scene.
type CoordinateSystem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	SceneID  int    `json:"scene_id"`
	LightIDs []int  `json:"light_ids,omitempty"`
}

// ArObject is an interactive object placed in a scene. Objects with no
// scene id are unattributable and excluded from ownership-based views.
type ArObject struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	SceneID *int   `json:"scene_id,omitempty"`
}

// ScanEvent is one light-trigger observation.
type ScanEvent struct {
	LightID int       `json:"light_id"`
	At      time.Time `json:"at"`
}

// ClickEvent is one in-scene object interaction. An empty UserKey means
// the event counts toward volume totals but not per-user computations.
type ClickEvent struct {
	ObjectID int       `json:"object_id"`
	At       time.Time `json:"at"`
	UserKey  string    `json:"user_key,omitempty"`
}

// Dataset is the aggregate root: raw entity and event lists plus the
// derived indices. It is immutable once built; every engine component
// takes it as read-only input.
type Dataset struct {
	Projects []Project          `json:"projects"`
	Lights   []Light            `json:"lights"`
	Scenes   []Scene            `json:"scenes"`
	Systems  []CoordinateSystem `json:"systems"`
	Objects  []ArObject         `json:"objects"`
	Scans    []ScanEvent        `json:"scans"`
	Clicks   []ClickEvent       `json:"clicks"`
	Index    Indices            `json:"-"`
}

// ProjectByID returns the project with the given id, or nil.
func (d *Dataset) ProjectByID(id int) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// ObjectByID returns the AR object with the given id, or nil.
func (d *Dataset) ObjectByID(id int) *ArObject {
	for i := range d.Objects {
		if d.Objects[i].ID == id {
			return &d.Objects[i]
		}
	}
	return nil
}

// ObjectNames returns a lookup from object id to display name. Objects
// without a name fall back to an empty string; callers decide how to
// render unknown ids.
func (d *Dataset) ObjectNames() map[int]string {
	names := make(map[int]string, len(d.Objects))
	for _, obj := range d.Objects {
		names[obj.ID] = obj.Name
	}
	return names
}
