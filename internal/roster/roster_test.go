package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmpPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "laikai.txt")
}

func TestLoadMissingFileYieldsEmptyRoster(t *testing.T) {
	t.Parallel()
	s, err := Load(tmpPath(t))
	require.NoError(t, err)
	assert.Empty(t, s.Names())
}

func TestSetThenLoadRoundTrips(t *testing.T) {
	t.Parallel()
	path := tmpPath(t)

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set([]string{"NOAA 19", "NOAA 18"}))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOAA 19", "NOAA 18"}, reloaded.Names())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Pasirinkti palydovai:\nNOAA 19\nNOAA 18\n", string(b))
}

func TestLoadSkipsHeaderLine(t *testing.T) {
	t.Parallel()
	path := tmpPath(t)
	require.NoError(t, os.WriteFile(path, []byte("Pasirinkti palydovai:\nNOAA 15\n\nNOAA 18\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOAA 15", "NOAA 18"}, s.Names())
}

func TestAddIsIdempotent(t *testing.T) {
	t.Parallel()
	s, err := Load(tmpPath(t))
	require.NoError(t, err)

	require.NoError(t, s.Add("NOAA 19"))
	require.NoError(t, s.Add("NOAA 19"))
	assert.Equal(t, []string{"NOAA 19"}, s.Names())
}

func TestRemoveDropsName(t *testing.T) {
	t.Parallel()
	s, err := Load(tmpPath(t))
	require.NoError(t, err)

	require.NoError(t, s.Set([]string{"NOAA 19", "NOAA 18"}))
	require.NoError(t, s.Remove("NOAA 19"))
	assert.Equal(t, []string{"NOAA 18"}, s.Names())
}
