package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "univers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBodies(t *testing.T) {
	db := openTestDB(t)

	x := catalog.Body{Name: "Planète X", Kind: catalog.KindPlanet, Mass: 3 * physics.EarthMass, Radius: 9000}
	y := catalog.Body{Name: "Magnetar Y", Kind: catalog.KindNeutronStar, Mass: 1.8 * physics.SolarMass, Radius: 12}
	require.NoError(t, db.SaveBody(x))
	require.NoError(t, db.SaveBody(y))

	// replacing keeps a single row
	x.Radius = 9500
	require.NoError(t, db.SaveBody(x))

	bodies, err := db.LoadBodies()
	require.NoError(t, err)
	require.Len(t, bodies, 2)

	byName := map[string]catalog.Body{}
	for _, b := range bodies {
		assert.True(t, b.Custom)
		byName[b.Name] = b
	}
	assert.Equal(t, 9500.0, byName["Planète X"].Radius)
	assert.Equal(t, catalog.KindNeutronStar, byName["Magnetar Y"].Kind)

	require.NoError(t, db.DeleteBody("magnetar y"))
	assert.True(t, errors.Is(db.DeleteBody("magnetar y"), ErrNotFound))

	err = db.SaveBody(catalog.Body{Name: "Bad", Kind: catalog.KindStar, Mass: -1, Radius: 1})
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestBodiesFeedCatalog(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveBody(catalog.Body{Name: "Dyson Sphere", Kind: catalog.KindStar, Mass: physics.SolarMass, Radius: 1.5e8}))

	bodies, err := db.LoadBodies()
	require.NoError(t, err)

	c, err := catalog.New(bodies...)
	require.NoError(t, err)
	_, err = c.Find("dyson sphere")
	assert.NoError(t, err)
}

func TestHistory(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, kind := range []types.AnalysisType{types.AnalysisBody, types.AnalysisVelocity, types.AnalysisSolve} {
		id, err := db.RecordHistory(&types.AnalysisResult{
			Type:       kind,
			Parameters: map[string]interface{}{"step": i},
			Results:    map[string]float64{"gamma": 1.25},
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.Len(t, id, 36)
	}

	entries, err := db.ListHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.AnalysisSolve, entries[0].Kind)
	assert.Equal(t, types.AnalysisVelocity, entries[1].Kind)
	assert.Equal(t, base.Add(2*time.Minute), entries[0].CreatedAt)

	var input map[string]int
	require.NoError(t, json.Unmarshal(entries[0].Input, &input))
	assert.Equal(t, 2, input["step"])
	assert.JSONEq(t, `{"gamma":1.25}`, string(entries[0].Result))

	got, err := db.GetHistory(entries[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entries[1].ID, got.ID)

	_, err = db.GetHistory("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	n, err := db.ClearHistory()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = db.RecordHistory(&types.AnalysisResult{})
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}
