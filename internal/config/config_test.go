package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/config"
)

const validYAML = `
mode: compare
type: [leda, leda]
rpts: [key.rpt, value.rpt]
compare_mode: endpoint
output_dir: out
analyse_tuples:
  - [key, value]
allow_unplaced_pins: true
enable_mbff: true
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, validYAML)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "compare", cfg.Mode)
	assert.Equal(t, []string{"leda", "leda"}, cfg.Type)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.AllowUnplacedPin)
	assert.True(t, cfg.EnableMBFF)

	tuples := cfg.Tuples()
	require.Len(t, tuples, 1)
	assert.Equal(t, "key", tuples[0].Key)
	assert.Equal(t, "value", tuples[0].Value)
}

func TestLoad_DefaultOutputDir(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, `
mode: compare
type: [leda]
rpts: [only.rpt]
compare_mode: endpoint
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.False(t, cfg.AllowUnplacedPin)
}

func TestLoad_MismatchedTypeRptsLength(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, `
mode: compare
type: [leda, leda]
rpts: [only.rpt]
compare_mode: endpoint
`)

	_, err := config.Load(path)
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoad_InvalidModeRejected(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, `
mode: explode
type: [leda]
rpts: [only.rpt]
compare_mode: endpoint
`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileReturnsConfigError(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidate_BadPatternTargetRejected(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Mode:        "compare",
		Type:        []string{"leda"},
		Rpts:        []string{"a.rpt"},
		CompareMode: "endpoint",
		AnalysePatterns: []config.Pattern{
			{Name: "bad", Target: "not-a-target"},
		},
	}

	err := config.Validate(cfg)
	assert.Error(t, err)
}
