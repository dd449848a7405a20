// Package planner builds the 24-hour candidate pass list and its lookup
// index from the current TLE roster, generalizing the teacher's
// ComputePasses into a satellite-agnostic pass over an arbitrary roster.
package planner

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/andriux26/groundstationd/internal/geometry"
	"github.com/andriux26/groundstationd/internal/tle"
)

// Window is one candidate pass, identified and sortable by rise time.
type Window struct {
	ID         string
	SatName    string
	TRise      time.Time
	TCulm      time.Time
	TSet       time.Time
	MaxElevDeg float64
	AOSAzDeg   float64
	LOSAzDeg   float64
}

// IndexEntry is the compact lookup record keyed by PassID.
type IndexEntry struct {
	StartUnix int64
	EndUnix   int64
	MaxElev   float64
}

// Index maps PassID to its compact lookup record.
type Index map[string]IndexEntry

// LookaheadHorizon is the fixed 24h planning window spec.md requires.
const LookaheadHorizon = 24 * time.Hour

// maxSanitizedLen is the PassID satellite-name component's truncation
// limit.
const maxSanitizedLen = 64

// Location resolves a configured timezone name to a *time.Location,
// falling back to UTC (with a logged warning) when the name is empty or
// unknown rather than failing pass planning outright.
func Location(tz string, logger *log.Logger) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		if logger != nil {
			logger.Printf("planner: unknown timezone %q, falling back to UTC: %v", tz, err)
		}
		return time.UTC
	}
	return loc
}

// Plan computes every future pass over the next 24h for the satellites
// named in selectedNames (or the whole roster, when selectedNames is empty),
// filtered to horizonDeg minimum elevation, sorted by rise time ascending.
// loc is the local timezone PassIDs are derived in.
func Plan(store *tle.Store, obs geometry.Observer, horizonDeg float64, selectedNames []string, now time.Time, loc *time.Location) ([]Window, Index, error) {
	names := selectedNames
	if len(names) == 0 {
		names = store.Names()
		sort.Strings(names)
	}

	end := now.Add(LookaheadHorizon)

	var windows []Window
	for _, name := range names {
		rec, ok := store.Get(name)
		if !ok {
			continue
		}

		events, err := geometry.FindEvents(name, rec.TLE, obs, now, end, horizonDeg)
		if err != nil {
			return nil, nil, fmt.Errorf("planner: %w", err)
		}

		for _, ev := range events {
			windows = append(windows, Window{
				ID:         PassID(loc, name, ev.TRise),
				SatName:    name,
				TRise:      ev.TRise,
				TCulm:      ev.TCulm,
				TSet:       ev.TSet,
				MaxElevDeg: ev.MaxElevDeg,
				AOSAzDeg:   ev.AOSAzDeg,
				LOSAzDeg:   ev.LOSAzDeg,
			})
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].TRise.Before(windows[j].TRise)
	})

	idx := make(Index, len(windows))
	for _, w := range windows {
		idx[w.ID] = IndexEntry{
			StartUnix: w.TRise.Unix(),
			EndUnix:   w.TSet.Unix(),
			MaxElev:   w.MaxElevDeg,
		}
	}

	return windows, idx, nil
}

// invalidIDChars matches everything PassID's sanitized satellite-name
// component must strip, once spaces have already become underscores.
var invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PassID derives the deterministic identifier for a pass:
// YYYYMMDD_HHMM_<sanitized satellite name>, floored to the minute of
// t_rise converted into loc. Two planning runs over the same TLE data and
// the same window always produce the same ID for the same pass, regardless
// of which instant's Location the caller happened to pass in for t_rise
// itself (only loc, the configured station timezone, determines the
// rendered date/time).
func PassID(loc *time.Location, satName string, tRise time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	local := tRise.In(loc)
	return fmt.Sprintf("%s_%s", local.Format("20060102_1504"), sanitize(satName))
}

// sanitize restricts s to [A-Za-z0-9_-], turning each space into an
// underscore first (other whitespace is dropped), then truncates to
// maxSanitizedLen bytes.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = invalidIDChars.ReplaceAllString(s, "")
	if len(s) > maxSanitizedLen {
		s = s[:maxSanitizedLen]
	}
	return s
}
