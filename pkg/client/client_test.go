package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
	"github.com/oxygene76/univers-client/pkg/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) *utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "univers.db")
	return cfg
}

func TestCustomBodiesPersist(t *testing.T) {
	cfg := testConfig(t)

	c, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	base := c.Catalog().Len()

	vulcan := catalog.Body{Name: "Vulcain", Kind: catalog.KindPlanet, Mass: 3e23, Radius: 2000}
	require.NoError(t, c.AddBody(vulcan))
	assert.Equal(t, base+1, c.Catalog().Len())
	assert.ErrorIs(t, c.AddBody(vulcan), catalog.ErrDuplicateBody)

	invalid := catalog.Body{Name: "Void", Kind: catalog.KindPlanet, Mass: -1, Radius: 1}
	assert.ErrorIs(t, c.AddBody(invalid), catalog.ErrInvalidBody)
	require.NoError(t, c.Close())

	reopened, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Catalog().Find("VULCAIN")
	require.NoError(t, err)
	assert.True(t, got.Custom)

	removed, err := reopened.RemoveBody("vulcain")
	require.NoError(t, err)
	assert.Equal(t, "Vulcain", removed.Name)
	assert.Equal(t, base, reopened.Catalog().Len())

	_, err = reopened.RemoveBody("Mars")
	assert.ErrorIs(t, err, catalog.ErrReadOnlyBody)
}

func TestRecordHistory(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	report, err := c.Analyzer().AnalyzeVelocity(1000, 0)
	require.NoError(t, err)
	c.Record(types.AnalysisVelocity, map[string]interface{}{"velocity": 1000}, report, time.Now())

	entries, err := c.History(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.AnalysisVelocity, entries[0].Kind)
	assert.NotNil(t, c.Recorder())
}

func TestStoreDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = false

	c, err := New(cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Store())
	assert.Nil(t, c.Recorder())
	assert.ErrorIs(t, c.AddBody(catalog.Body{Name: "X", Kind: catalog.KindPlanet, Mass: 1e24, Radius: 5000}), ErrStoreDisabled)
	_, err = c.RemoveBody("X")
	assert.ErrorIs(t, err, ErrStoreDisabled)
	_, err = c.History(10)
	assert.ErrorIs(t, err, ErrStoreDisabled)

	// recording is a no-op without a store
	c.Record(types.AnalysisGamma, nil, nil, time.Now())
}

func TestRecorderFollowsConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RecordHistory = false

	c, err := New(cfg, nil)
	require.NoError(t, err)
	defer c.Close()
	assert.Nil(t, c.Recorder())
	assert.NotNil(t, c.Store())
}

func TestReconfigure(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, physics.LangFR, c.Analyzer().Options().Lang)

	cfg := testConfig(t)
	cfg.Display.Lang = "en"
	m := c.Reconfigure(cfg)
	assert.Equal(t, physics.LangEN, m.Options().Lang)
	assert.Same(t, c.Catalog(), m.Catalog())
	assert.Same(t, m, c.Analyzer())
	assert.Same(t, cfg, c.Config())
}
