package tle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAndGetReflectLoadedRoster(t *testing.T) {
	t.Parallel()
	s := &Store{records: map[string]Record{
		"NOAA 19": {Name: "NOAA 19", Line1: "L1-A", Line2: "L2-A"},
		"NOAA 18": {Name: "NOAA 18", Line1: "L1-B", Line2: "L2-B"},
	}}

	names := s.Names()
	assert.ElementsMatch(t, []string{"NOAA 19", "NOAA 18"}, names)

	r, ok := s.Get("NOAA 19")
	require.True(t, ok)
	assert.Equal(t, "L1-A", r.Line1)

	_, ok = s.Get("nonexistent")
	assert.False(t, ok)
}

func TestParseRejectsUnparsableInputWithoutPanicking(t *testing.T) {
	t.Parallel()
	s := New(filepath.Join(t.TempDir(), "tle.txt"), "", true)

	err := s.parse("not a tle\nat all\njust noise\n")
	assert.Error(t, err)
}

func TestParseRejectsGarbageBlockSplitByBlankLines(t *testing.T) {
	t.Parallel()
	s := New(filepath.Join(t.TempDir(), "tle.txt"), "", true)

	err := s.parse("\n\ngarbage line one\n\ngarbage line two\ngarbage line three\n\n")
	assert.Error(t, err)
}

func TestSaveTextPersistsAndTextRoundTrips(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tle.txt")
	s := New(path, "", true)

	raw := "garbage header\nline one\nline two\n"
	err := s.SaveText(raw)
	assert.Error(t, err)

	b, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, raw, string(b))

	text, err := s.Text()
	require.NoError(t, err)
	assert.Equal(t, raw, text)
}

func TestFetchOrLoadManualModeReadsLocalFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tle.txt")
	require.NoError(t, os.WriteFile(path, []byte("garbage\nline\ndata\n"), 0o644))

	s := New(path, "", true)
	err := s.FetchOrLoad()
	assert.Error(t, err)
}

func TestFetchOrLoadManualModeMissingFileErrors(t *testing.T) {
	t.Parallel()
	s := New(filepath.Join(t.TempDir(), "missing.txt"), "", true)

	err := s.FetchOrLoad()
	assert.Error(t, err)
}
