package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedFixture(t *testing.T, db *DB) {
	t.Helper()

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO projects (id, name, starts_at, ends_at, active, latitude, longitude, owner_emails)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{1, "Harbor Lights",
				time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				1, 52.52, 13.405, "a@example.com,b@example.com"}},
		{`INSERT INTO projects (id, name, active) VALUES (?, ?, ?)`,
			[]any{2, "Pop-up", 0}},
		{`INSERT INTO project_lights (project_id, light_id) VALUES (?, ?)`, []any{1, 10}},
		{`INSERT INTO project_lights (project_id, light_id) VALUES (?, ?)`, []any{1, 11}},
		{`INSERT INTO project_lights (project_id, light_id) VALUES (?, ?)`, []any{2, 10}},
		{`INSERT INTO project_scene_refs (project_id, ref) VALUES (?, ?)`, []any{1, "5-atrium"}},
		{`INSERT INTO project_scene_refs (project_id, ref) VALUES (?, ?)`, []any{1, "legacy-ref"}},
		{`INSERT INTO scenes (id, name) VALUES (?, ?)`, []any{5, "Atrium"}},
		{`INSERT INTO coordinate_systems (id, name, scene_id) VALUES (?, ?, ?)`, []any{3, "ground", 5}},
		{`INSERT INTO lights (id, system_id, latitude, longitude) VALUES (?, ?, ?, ?)`,
			[]any{10, 3, 52.5, 13.4}},
		{`INSERT INTO lights (id) VALUES (?)`, []any{11}},
		{`INSERT INTO ar_objects (id, name, scene_id) VALUES (?, ?, ?)`, []any{100, "orb", 5}},
		{`INSERT INTO ar_objects (id, name) VALUES (?, ?)`, []any{101, "orphan"}},
		{`INSERT INTO scan_events (light_id, at) VALUES (?, ?)`,
			[]any{10, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)}},
		{`INSERT INTO scan_events (light_id, at) VALUES (?, ?)`,
			[]any{10, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}},
		{`INSERT INTO click_events (object_id, at, user_key) VALUES (?, ?, ?)`,
			[]any{100, time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC), "u1"}},
		{`INSERT INTO click_events (object_id, at, user_key) VALUES (?, ?, ?)`,
			[]any{100, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), nil}},
	}

	for _, stmt := range stmts {
		_, err := db.Exec(stmt.query, stmt.args...)
		require.NoError(t, err, "seed failed: %s", stmt.query)
	}
}

func TestStore_Load(t *testing.T) {
	db := NewTestDB(t)
	seedFixture(t, db)

	store := NewStore(db)
	d, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, d.Projects, 2)
	p1 := d.Projects[0]
	require.Equal(t, 1, p1.ID)
	require.Equal(t, "Harbor Lights", p1.Name)
	require.True(t, p1.Active)
	require.NotNil(t, p1.StartsAt)
	require.NotNil(t, p1.EndsAt)
	require.True(t, p1.StartsAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, p1.HasCoordinates())
	require.Equal(t, []string{"a@example.com", "b@example.com"}, p1.OwnerEmails)
	require.Equal(t, []int{10, 11}, p1.LightIDs)

	p2 := d.Projects[1]
	require.False(t, p2.Active)
	require.Nil(t, p2.StartsAt)
	require.False(t, p2.HasCoordinates())
	require.Empty(t, p2.OwnerEmails)
}

func TestStore_LoadSkipsMalformedSceneRefs(t *testing.T) {
	db := NewTestDB(t)
	seedFixture(t, db)

	d, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)

	// "legacy-ref" has no numeric prefix and is dropped at load time.
	require.Len(t, d.Projects[0].SceneRefs, 1)
	require.Equal(t, 5, d.Projects[0].SceneRefs[0].SceneID)
	require.Equal(t, "atrium", d.Projects[0].SceneRefs[0].Label)
}

func TestStore_LoadDerivesSystemMembership(t *testing.T) {
	db := NewTestDB(t)
	seedFixture(t, db)

	d, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, d.Systems, 1)
	require.Equal(t, 5, d.Systems[0].SceneID)
	require.Equal(t, []int{10}, d.Systems[0].LightIDs)

	require.Len(t, d.Lights, 2)
	require.NotNil(t, d.Lights[0].SystemID)
	require.Equal(t, 3, *d.Lights[0].SystemID)
	require.Nil(t, d.Lights[1].SystemID)
}

func TestStore_LoadOrdersEventsAndBuildsIndices(t *testing.T) {
	db := NewTestDB(t)
	seedFixture(t, db)

	d, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, d.Scans, 2)
	require.True(t, d.Scans[0].At.Before(d.Scans[1].At), "scans should come back in timestamp order")

	require.Len(t, d.Clicks, 2)
	require.Equal(t, "u1", d.Clicks[0].UserKey)
	require.Empty(t, d.Clicks[1].UserKey, "NULL user key maps to the anonymous key")

	// Light 10 belongs to both projects; object 100 reaches project 1
	// through the scene reference.
	require.ElementsMatch(t, []int{1, 2}, d.Index.LightProjects[10])
	require.Equal(t, []int{1}, d.Index.ObjectProjects[100])
	require.Contains(t, d.Index.FirstClickByUser, "u1")
}

func TestStore_LoadEmptyDatabase(t *testing.T) {
	db := NewTestDB(t)

	d, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, d.Projects)
	require.Empty(t, d.Scans)
	require.NotNil(t, d.Index.LightProjects)
}
