package gallery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMeta(t *testing.T, dir string, m Meta) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	b, err := json.MarshalIndent(m, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), b, 0o644))
}

func TestCleanupRemovesOnlyStalePasses(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	old := Meta{Satellite: "NOAA 19", StartLocal: time.Now().AddDate(0, 0, -10).Format(LocalTimeLayout)}
	fresh := Meta{Satellite: "NOAA 18", StartLocal: time.Now().Format(LocalTimeLayout)}
	writeMeta(t, s.DirFor("stale@1"), old)
	writeMeta(t, s.DirFor("fresh@2"), fresh)

	removed, err := s.Cleanup(7, "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(s.DirFor("stale@1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(s.DirFor("fresh@2"))
	assert.NoError(t, err)
}

func TestCleanupNeverRemovesCurrentPass(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	current := Meta{Satellite: "NOAA 19", StartLocal: time.Now().AddDate(0, 0, -30).Format(LocalTimeLayout)}
	writeMeta(t, s.DirFor("inprogress@1"), current)

	removed, err := s.Cleanup(7, "inprogress@1", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(s.DirFor("inprogress@1"))
	assert.NoError(t, err)
}

func TestCleanupZeroDaysIsNoop(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	writeMeta(t, s.DirFor("stale@1"), Meta{StartLocal: time.Now().AddDate(0, 0, -365).Format(LocalTimeLayout)})

	removed, err := s.Cleanup(0, "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestCleanupFallsBackToDirMtimeWithoutMeta(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	dir := s.DirFor("nometa@1")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(dir, old, old))

	removed, err := s.Cleanup(7, "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestListPassesSortedNewestFirst(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	older := Meta{StartLocal: time.Now().Add(-time.Hour).Format(LocalTimeLayout)}
	newer := Meta{StartLocal: time.Now().Format(LocalTimeLayout)}
	writeMeta(t, s.DirFor("a@1"), older)
	writeMeta(t, s.DirFor("b@2"), newer)

	passes, err := s.ListPasses()
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, "b@2", passes[0].PassID)
	assert.Equal(t, "a@1", passes[1].PassID)
}

func TestSealWritesMetaShapeAndThumbsDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := New(root)

	dir := s.DirFor("seal@1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	err := s.Seal("seal@1", "NOAA 19", "2026-07-31T10:15:00", "2026-07-31T10:25:00")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.ElementsMatch(t, []string{"satellite", "start_local", "end_local", "created_utc"}, keysOf(raw))

	var m Meta
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "NOAA 19", m.Satellite)
	assert.Equal(t, "2026-07-31T10:15:00", m.StartLocal)
	assert.Equal(t, "2026-07-31T10:25:00", m.EndLocal)
	assert.NotEmpty(t, m.CreatedUTC)

	_, err = os.Stat(filepath.Join(dir, thumbsDirName))
	assert.NoError(t, err)
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestSanitizeReplacesPathSeparators(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a_b_c", sanitize("a/b:c"))
}

func TestThumbNameNormalizesExtension(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "frame.jpg", thumbName("frame.png"))
	assert.Equal(t, "frame.jpg", thumbName("frame.jpeg"))
}
