package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yml")))

	assert.Equal(t, ":8080", Config.Server.Listen)
	assert.Equal(t, 60, Config.Delays.CacheTTLSeconds)

	require.Len(t, Config.Delays.Sources, 2)
	assert.Equal(t, "zponline", Config.Delays.Sources[0].Page)
	assert.Equal(t, "zponlineos", Config.Delays.Sources[1].Page)

	assert.Equal(t, "ST_44120", Config.Timetable.FromStop)
	assert.Equal(t, "ST_44121", Config.Timetable.ToStop)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen: ":9090"
delays:
  cache_ttl_seconds: 30
timetable:
  gtfs_path: /data/gtfs.zip
  from_stop: ST_1
  to_stop: ST_2
`), 0o644))

	require.NoError(t, Load(path))

	assert.Equal(t, ":9090", Config.Server.Listen)
	assert.Equal(t, 30, Config.Delays.CacheTTLSeconds)
	assert.Equal(t, "/data/gtfs.zip", Config.Timetable.GTFSPath)
	assert.Equal(t, "ST_1", Config.Timetable.FromStop)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TRAINBOARD_LISTEN", ":7000")
	t.Setenv("TRAINBOARD_GTFS_PATH", "/env/gtfs")
	t.Setenv("TRAINBOARD_DELAYS_ENDPOINT", "http://localhost:9999/delays")

	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yml")))

	assert.Equal(t, ":7000", Config.Server.Listen)
	assert.Equal(t, "/env/gtfs", Config.Timetable.GTFSPath)

	require.Len(t, Config.Delays.Sources, 1)
	assert.Equal(t, "http://localhost:9999/delays", Config.Delays.Sources[0].URL)
}

func TestLoadValidatesSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
delays:
  sources:
    - page: broken
      url: "not a url"
`), 0o644))

	assert.Error(t, Load(path))
}
