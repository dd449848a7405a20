package selection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "selection.json"), filepath.Join(dir, "sekimas.txt")
}

func TestLoadMissingFilesYieldsEmptySelection(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)
	assert.Empty(t, s.IDs())
}

func TestSetThenLoadRoundTrips(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)

	mirrorErr, err := s.Set([]string{"20260731_1015_NOAA_19", "20260731_1200_NOAA_18"})
	require.NoError(t, err)
	require.NoError(t, mirrorErr)

	reloaded, err := Load(jsonPath, textPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260731_1015_NOAA_19", "20260731_1200_NOAA_18"}, reloaded.IDs())

	b, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "20260731_1015_NOAA_19\n20260731_1200_NOAA_18\n", string(b))
}

func TestLoadPrefersJSONOverStaleTextMirror(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)

	require.NoError(t, os.WriteFile(textPath, []byte("STALE-ID\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"ids":["20260731_1015_NOAA_15"]}`), 0o644))

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260731_1015_NOAA_15"}, s.IDs())
}

func TestLoadFallsBackToTextMirrorOnMalformedJSON(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)
	require.NoError(t, os.WriteFile(jsonPath, []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(textPath, []byte("20260731_1015_NOAA_15\n"), 0o644))

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260731_1015_NOAA_15"}, s.IDs())
}

func TestLoadAcceptsLegacySingularIDField(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"id":"20260731_1015_NOAA_15"}`), 0o644))

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260731_1015_NOAA_15"}, s.IDs())
}

func TestAddSortsAndDedupes(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)
	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)

	_, err = s.Add("20260731_1200_NOAA_18")
	require.NoError(t, err)
	_, err = s.Add("20260731_1015_NOAA_15")
	require.NoError(t, err)
	_, err = s.Add("20260731_1200_NOAA_18")
	require.NoError(t, err)

	assert.Equal(t, []string{"20260731_1015_NOAA_15", "20260731_1200_NOAA_18"}, s.IDs())
}

func TestRemovePreservesOrderOfRemainder(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)
	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)

	_, err = s.Set([]string{"c", "a", "b"})
	require.NoError(t, err)
	_, err = s.Remove("a")
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b"}, s.IDs())
}

func TestClearEmptiesSelection(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)
	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)

	_, err = s.Set([]string{"a", "b"})
	require.NoError(t, err)
	_, err = s.Clear()
	require.NoError(t, err)

	assert.Empty(t, s.IDs())
}

func TestSetWithNoIDsWritesEmptyMirror(t *testing.T) {
	t.Parallel()
	jsonPath, textPath := paths(t)

	s, err := Load(jsonPath, textPath)
	require.NoError(t, err)

	mirrorErr, err := s.Set(nil)
	require.NoError(t, err)
	require.NoError(t, mirrorErr)

	b, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "", string(b))
}
