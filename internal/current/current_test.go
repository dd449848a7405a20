package current

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmpPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "current.json")
}

func TestLoadMissingFileYieldsIdle(t *testing.T) {
	t.Parallel()
	s, err := Load(tmpPath(t))
	require.NoError(t, err)
	assert.Equal(t, "", s.Get())
}

func TestSetThenLoadRoundTrips(t *testing.T) {
	t.Parallel()
	path := tmpPath(t)

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("20260731_1015_NOAA_19"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"20260731_1015_NOAA_19"}`, string(b))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "20260731_1015_NOAA_19", reloaded.Get())
}

func TestClearOverwritesRatherThanDeletes(t *testing.T) {
	t.Parallel()
	path := tmpPath(t)

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("20260731_1015_NOAA_19"))
	require.NoError(t, s.Clear())

	assert.Equal(t, "", s.Get())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":""}`, string(b))
}
