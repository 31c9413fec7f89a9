package assets_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/assets"
	"github.com/kinling9/stacompare/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestMBFFPattern_MergeMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "mbff.yml", `
merge:
  leda: "^(.*)/(FF0)_(FF1)/(.*)$"
split:
  leda: "^(.*)/(FF)/(.*)$"
`)

	p, err := assets.LoadMBFFPattern(path)
	require.NoError(t, err)

	names := p.GetFFNames("leda", "top/FF0_FF1/out")
	require.Len(t, names, 2)
	assert.Equal(t, "top/FF0/out", names[0])
	assert.Equal(t, "top/FF1/out", names[1])
}

func TestIgnorePattern_PerToolMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "ignore.yml", `
leda:
  - "^#.*"
  - "scratch"
`)

	p, err := assets.LoadIgnorePattern(path)
	require.NoError(t, err)

	assert.True(t, p.CheckIgnore("leda", "# a comment line"))
	assert.True(t, p.CheckIgnore("leda", "some scratch register"))
	assert.False(t, p.CheckIgnore("leda", "Startpoint: reg1"))
	assert.False(t, p.CheckIgnore("invs", "# a comment line"))
}

func TestIgnorePattern_NilIsDisabled(t *testing.T) {
	t.Parallel()

	var p *assets.IgnorePattern
	assert.False(t, p.CheckIgnore("leda", "anything"))
}

func TestIgnoreFilter_FlatList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "ignore_filter.yml", "- \"DUMMY\"\n- \"^TEST\"\n")

	f, err := assets.LoadIgnoreFilter(path)
	require.NoError(t, err)

	assert.True(t, f.CheckIgnoreFilter("a DUMMY pin"))
	assert.True(t, f.CheckIgnoreFilter("TESTBENCH"))
	assert.False(t, f.CheckIgnoreFilter("real_pin"))
}

func TestExtractSuperArc_FindsSubsequence(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "d")
	names := []string{"A", "B", "C", "D"}
	ids := make([]model.PinID, len(names))

	for i, n := range names {
		id := db.Intern(n)
		ids[i] = id

		pin := db.Pin(id)
		pin.IncrDelay = float64(i)
		pin.Location = &model.Point{X: float64(i), Y: 0}
	}

	path := &model.Path{Startpoint: "A", Endpoint: "D", Slack: -1.0, Pins: ids}

	sa, ok := assets.ExtractSuperArc(db, path, "B", "D")
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C", "D"}, sa.Pins)
	assert.InDelta(t, 2.0+3.0, sa.Delay, 1e-9)
	assert.InDelta(t, 2.0, sa.Length, 1e-9)
}

func TestExtractSuperArc_MissingEndpointFails(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "d")
	id := db.Intern("A")
	path := &model.Path{Startpoint: "A", Endpoint: "A", Pins: []model.PinID{id}}

	_, ok := assets.ExtractSuperArc(db, path, "A", "Z")
	assert.False(t, ok)
}

func TestLoadPeriods_NameFromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "design_period.yml", "chip_top: 2.5\nother_design: 1.0\n")

	periods, err := assets.LoadPeriods(path)
	require.NoError(t, err)

	period, ok := periods.Period("chip_top")
	require.True(t, ok)
	assert.InDelta(t, 2.5, period, 1e-9)

	rptPath := filepath.Join(dir, "chip_top", "key.rpt")
	design := periods.NameFromPath(rptPath)
	assert.Equal(t, "chip_top", design)
}

func TestLoadPinAttributes_HeaderDriven(t *testing.T) {
	t.Parallel()

	content := "name,loc_x,loc_y,trans_rise,trans_fall\n" +
		"A,1.0,2.0,0.1,0.2\n" +
		"B,,,,\n"

	pins, err := assets.LoadPinAttributes(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, pins, 2)

	require.NotNil(t, pins["A"].Location)
	assert.InDelta(t, 1.0, pins["A"].Location.X, 1e-9)
	require.NotNil(t, pins["A"].Transs)
	assert.InDelta(t, 0.1, pins["A"].Transs[0], 1e-9)

	assert.Nil(t, pins["B"].Location)
}

func TestLoadPinAttributes_MissingNameColumnErrors(t *testing.T) {
	t.Parallel()

	_, err := assets.LoadPinAttributes(strings.NewReader("loc_x,loc_y\n1,2\n"))
	assert.Error(t, err)
}
