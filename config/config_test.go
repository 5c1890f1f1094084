package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	fs.Int("jobs", DefaultJobs, "")
	fs.Int("seekpoint-density", DefaultSeekpointDensity, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flvtool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
strict: true
creator: from-file
jobs: 2
log:
  level: warn
  mode: rotate
`), 0644))

	t.Setenv("FLVTOOL_JOBS", "3")
	t.Setenv("FLVTOOL_SEEKPOINT_DENSITY", "20")

	c, err := Load(flags(t, "--config", path, "--log.level", "debug"))
	require.NoError(t, err)
	assert.True(t, c.Strict)
	assert.Equal(t, "from-file", c.Creator)
	// The environment wins over the file, flags win over both.
	assert.Equal(t, 3, c.Jobs)
	assert.Equal(t, 20, c.SeekpointDensity)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "rotate", c.Log.Mode)
	assert.Equal(t, "stderr", c.Log.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(flags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)

	_, err = Load(flags(t, "--jobs", "0"))
	require.EqualError(t, err, "jobs must be positive, got 0")

	_, err = Load(flags(t, "--log.mode", "sideways"))
	require.EqualError(t, err, `invalid log mode "sideways"`)
}

func TestConfig_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "config.Config{")
	assert.Contains(t, s, `"flvtool 1.0.0"`)
}
