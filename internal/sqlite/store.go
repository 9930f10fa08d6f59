package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// Store implements repository.DatasetSource over the SQLite source
// schema. Load reads every table and returns a fully indexed snapshot;
// the dataset is always rebuilt in full.
type Store struct {
	db *DB
}

// NewStore creates a new dataset store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Load reads the complete dashboard dataset. Malformed scene references
// are skipped; missing optional fields map to their documented defaults.
func (s *Store) Load(ctx context.Context) (*dataset.Dataset, error) {
	d := &dataset.Dataset{}

	if err := s.loadProjects(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadScenes(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadSystems(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadLights(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadObjects(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadScans(ctx, d); err != nil {
		return nil, err
	}
	if err := s.loadClicks(ctx, d); err != nil {
		return nil, err
	}

	d.Index = dataset.BuildIndices(d)
	return d, nil
}

func (s *Store) loadProjects(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, starts_at, ends_at, active, latitude, longitude, owner_emails
		FROM projects
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]int)
	for rows.Next() {
		var proj dataset.Project
		var startsAt, endsAt sql.NullTime
		var lat, lng sql.NullFloat64
		var emails sql.NullString
		if err := rows.Scan(&proj.ID, &proj.Name, &startsAt, &endsAt, &proj.Active, &lat, &lng, &emails); err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		if startsAt.Valid {
			t := startsAt.Time
			proj.StartsAt = &t
		}
		if endsAt.Valid {
			t := endsAt.Time
			proj.EndsAt = &t
		}
		if lat.Valid && lng.Valid {
			proj.Latitude = &lat.Float64
			proj.Longitude = &lng.Float64
		}
		if emails.Valid && emails.String != "" {
			proj.OwnerEmails = strings.Split(emails.String, ",")
		}
		byID[proj.ID] = len(d.Projects)
		d.Projects = append(d.Projects, proj)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating projects: %w", err)
	}

	if err := s.loadProjectLights(ctx, d, byID); err != nil {
		return err
	}
	return s.loadProjectSceneRefs(ctx, d, byID)
}

func (s *Store) loadProjectLights(ctx context.Context, d *dataset.Dataset, byID map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, light_id FROM project_lights ORDER BY project_id, light_id
	`)
	if err != nil {
		return fmt.Errorf("failed to load project lights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, lightID int
		if err := rows.Scan(&projectID, &lightID); err != nil {
			return fmt.Errorf("failed to scan project light: %w", err)
		}
		if i, ok := byID[projectID]; ok {
			d.Projects[i].LightIDs = append(d.Projects[i].LightIDs, lightID)
		}
	}
	return rows.Err()
}

func (s *Store) loadProjectSceneRefs(ctx context.Context, d *dataset.Dataset, byID map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, ref FROM project_scene_refs ORDER BY project_id, ref
	`)
	if err != nil {
		return fmt.Errorf("failed to load scene refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID int
		var raw string
		if err := rows.Scan(&projectID, &raw); err != nil {
			return fmt.Errorf("failed to scan scene ref: %w", err)
		}
		ref, ok := dataset.ParseSceneRef(raw)
		if !ok {
			// Unparsable prefix: the reference contributes no ownership.
			continue
		}
		if i, exists := byID[projectID]; exists {
			d.Projects[i].SceneRefs = append(d.Projects[i].SceneRefs, ref)
		}
	}
	return rows.Err()
}

func (s *Store) loadScenes(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM scenes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load scenes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scene dataset.Scene
		if err := rows.Scan(&scene.ID, &scene.Name); err != nil {
			return fmt.Errorf("failed to scan scene: %w", err)
		}
		d.Scenes = append(d.Scenes, scene)
	}
	return rows.Err()
}

func (s *Store) loadSystems(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, scene_id FROM coordinate_systems ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to load coordinate systems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sys dataset.CoordinateSystem
		if err := rows.Scan(&sys.ID, &sys.Name, &sys.SceneID); err != nil {
			return fmt.Errorf("failed to scan coordinate system: %w", err)
		}
		d.Systems = append(d.Systems, sys)
	}
	return rows.Err()
}

func (s *Store) loadLights(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, system_id, latitude, longitude FROM lights ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to load lights: %w", err)
	}
	defer rows.Close()

	systems := make(map[int]int, len(d.Systems))
	for i, sys := range d.Systems {
		systems[sys.ID] = i
	}

	for rows.Next() {
		var light dataset.Light
		var systemID sql.NullInt64
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&light.ID, &systemID, &lat, &lng); err != nil {
			return fmt.Errorf("failed to scan light: %w", err)
		}
		if systemID.Valid {
			id := int(systemID.Int64)
			light.SystemID = &id
			// Membership lists on coordinate systems derive from the
			// lights' back-references.
			if i, ok := systems[id]; ok {
				d.Systems[i].LightIDs = append(d.Systems[i].LightIDs, light.ID)
			}
		}
		if lat.Valid && lng.Valid {
			light.Latitude = &lat.Float64
			light.Longitude = &lng.Float64
		}
		d.Lights = append(d.Lights, light)
	}
	return rows.Err()
}

func (s *Store) loadObjects(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, scene_id FROM ar_objects ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to load ar objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var obj dataset.ArObject
		var sceneID sql.NullInt64
		if err := rows.Scan(&obj.ID, &obj.Name, &sceneID); err != nil {
			return fmt.Errorf("failed to scan ar object: %w", err)
		}
		if sceneID.Valid {
			id := int(sceneID.Int64)
			obj.SceneID = &id
		}
		d.Objects = append(d.Objects, obj)
	}
	return rows.Err()
}

func (s *Store) loadScans(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT light_id, at FROM scan_events ORDER BY at
	`)
	if err != nil {
		return fmt.Errorf("failed to load scan events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scan dataset.ScanEvent
		if err := rows.Scan(&scan.LightID, &scan.At); err != nil {
			return fmt.Errorf("failed to scan scan event: %w", err)
		}
		d.Scans = append(d.Scans, scan)
	}
	return rows.Err()
}

func (s *Store) loadClicks(ctx context.Context, d *dataset.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id, at, user_key FROM click_events ORDER BY at
	`)
	if err != nil {
		return fmt.Errorf("failed to load click events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var click dataset.ClickEvent
		var userKey sql.NullString
		if err := rows.Scan(&click.ObjectID, &click.At, &userKey); err != nil {
			return fmt.Errorf("failed to scan click event: %w", err)
		}
		if userKey.Valid {
			click.UserKey = userKey.String
		}
		d.Clicks = append(d.Clicks, click)
	}
	return rows.Err()
}
