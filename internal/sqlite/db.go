package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the dashboard source schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects and their ownership link tables
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    starts_at TIMESTAMP,
    ends_at TIMESTAMP,
    active INTEGER NOT NULL DEFAULT 1,
    latitude REAL,
    longitude REAL,
    owner_emails TEXT
);

CREATE TABLE IF NOT EXISTS project_lights (
    project_id INTEGER NOT NULL,
    light_id INTEGER NOT NULL,
    PRIMARY KEY (project_id, light_id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Raw scene reference strings are preserved; the numeric scene id is
-- parsed out at load time.
CREATE TABLE IF NOT EXISTS project_scene_refs (
    project_id INTEGER NOT NULL,
    ref TEXT NOT NULL,
    PRIMARY KEY (project_id, ref),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Physical entities
CREATE TABLE IF NOT EXISTS scenes (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS coordinate_systems (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    scene_id INTEGER NOT NULL,
    FOREIGN KEY (scene_id) REFERENCES scenes(id)
);

CREATE TABLE IF NOT EXISTS lights (
    id INTEGER PRIMARY KEY,
    system_id INTEGER,
    latitude REAL,
    longitude REAL,
    FOREIGN KEY (system_id) REFERENCES coordinate_systems(id)
);

CREATE TABLE IF NOT EXISTS ar_objects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    scene_id INTEGER,
    FOREIGN KEY (scene_id) REFERENCES scenes(id)
);

-- Event logs
CREATE TABLE IF NOT EXISTS scan_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    light_id INTEGER NOT NULL,
    at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_events_at ON scan_events(at);
CREATE INDEX IF NOT EXISTS idx_scan_events_light ON scan_events(light_id);

CREATE TABLE IF NOT EXISTS click_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    object_id INTEGER NOT NULL,
    at TIMESTAMP NOT NULL,
    user_key TEXT
);
CREATE INDEX IF NOT EXISTS idx_click_events_at ON click_events(at);
CREATE INDEX IF NOT EXISTS idx_click_events_object ON click_events(object_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
