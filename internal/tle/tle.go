// Package tle loads and caches Two-Line Element sets for an arbitrary
// satellite roster. Unlike a fixed catalog, the roster is whatever names
// appear in the fetched or manually-supplied text; callers look satellites
// up by name.
package tle

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
)

const fetchTimeout = 8 * time.Second

// Record is a single parsed TLE, retaining the raw two lines so they can be
// re-emitted verbatim (e.g. for /api/tle_txt).
type Record struct {
	Name  string
	Line1 string
	Line2 string
	TLE   *sgp4.TLE
}

// Store holds the current roster on disk at tlePath (spec.md's tle.txt) and
// knows how to refresh it from the network unless manual mode is set.
type Store struct {
	tlePath string
	url     string
	manual  bool

	records map[string]Record
}

// New returns a store rooted at tlePath. url is the fetch source used when
// manual is false.
func New(tlePath, url string, manual bool) *Store {
	return &Store{tlePath: tlePath, url: url, manual: manual}
}

// FetchOrLoad refreshes the roster: in manual mode it just re-reads the local
// file; otherwise it fetches from the network within an 8s budget and writes
// the result atomically, falling back to whatever is already on disk if the
// fetch fails. It is fatal only when neither a fetch nor a local file is
// available — callers should treat that as a hard error.
func (s *Store) FetchOrLoad() error {
	if s.manual {
		return s.loadFromDisk()
	}

	body, err := s.fetchFromNetwork()
	if err != nil {
		if loadErr := s.loadFromDisk(); loadErr == nil {
			return nil
		}
		return fmt.Errorf("tle: fetch failed (%v) and no local cache at %s", err, s.tlePath)
	}

	if writeErr := s.atomicWrite(body); writeErr != nil {
		// A stale-write failure doesn't invalidate data we already hold in
		// memory; parse and keep going.
		_ = writeErr
	}
	return s.parse(body)
}

// Names returns the roster's satellite names. The order is not defined;
// callers that need a stable order sort the result.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.records))
	for _, r := range s.records {
		names = append(names, r.Name)
	}
	return names
}

// Get returns the parsed TLE for name, if present.
func (s *Store) Get(name string) (Record, bool) {
	r, ok := s.records[name]
	return r, ok
}

// SaveText overwrites the on-disk roster with raw text (manual-mode entry
// point) and reparses it in memory.
func (s *Store) SaveText(text string) error {
	if err := s.atomicWrite(text); err != nil {
		return err
	}
	return s.parse(text)
}

// Text returns the raw on-disk roster.
func (s *Store) Text() (string, error) {
	b, err := os.ReadFile(s.tlePath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) loadFromDisk() error {
	b, err := os.ReadFile(s.tlePath)
	if err != nil {
		return err
	}
	return s.parse(string(b))
}

func (s *Store) fetchFromNetwork() (string, error) {
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tle fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) atomicWrite(data string) error {
	dir := filepath.Dir(s.tlePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tle-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.tlePath)
}

// parse extracts repeating 3-line blocks (name, line1, line2). Blank lines
// between blocks are skipped; no checksum or epoch validation is performed,
// matching the original implementation's permissive parser.
func (s *Store) parse(raw string) error {
	result := make(map[string]Record)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	for i := 0; i+2 < len(lines); i += 3 {
		name := lines[i]
		l1, l2 := lines[i+1], lines[i+2]
		group := name + "\n" + l1 + "\n" + l2

		t, err := sgp4.ParseTLE(group)
		if err != nil {
			continue
		}

		result[name] = Record{Name: name, Line1: l1, Line2: l2, TLE: t}
	}

	if len(result) == 0 {
		return fmt.Errorf("tle: no parsable records in %d lines", len(lines))
	}

	s.records = result
	return nil
}
