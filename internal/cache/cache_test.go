package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/cache"
	"github.com/kinling9/stacompare/internal/model"
)

func buildSampleDb() *model.Db {
	db := model.NewDb("leda", "chip_top")

	a := db.Intern("A")
	b := db.Intern("B")
	c := db.Intern("C")

	db.Pin(a).IsInput = true
	db.Pin(b).IsInput = false
	db.Pin(b).Rise = true
	db.Pin(b).IncrDelay = 1.0
	db.Pin(b).PathDelay = 1.0
	db.Pin(c).IsInput = true
	db.Pin(c).Rise = false
	db.Pin(c).IncrDelay = 2.0
	db.Pin(c).PathDelay = 3.0

	db.AddPath(&model.Path{Startpoint: "A", Endpoint: "C", Slack: -0.5, Pins: []model.PinID{a, b, c}})
	db.Finalize()

	return db
}

func TestStoreLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	db := buildSampleDb()
	path := filepath.Join(t.TempDir(), "chip_top.cache")

	require.NoError(t, cache.Store(path, db))

	restored, err := cache.Load(path)
	require.NoError(t, err)

	assert.Equal(t, db.Tool, restored.Tool)
	assert.Equal(t, db.Design, restored.Design)
	require.Len(t, restored.Paths, 1)
	assert.Equal(t, "A", restored.Paths[0].Startpoint)
	assert.Equal(t, "C", restored.Paths[0].Endpoint)
	assert.InDelta(t, -0.5, restored.Paths[0].Slack, 1e-9)

	require.Len(t, restored.AllArcs, 2)
	assert.Equal(t, db.PinCount(), restored.PinCount())
}

func TestLoad_MissingFileErrors(t *testing.T) {
	t.Parallel()

	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.cache"))
	assert.Error(t, err)
}
