// Package geometry wraps SGP4 orbital propagation behind the narrow
// contract the planner and tracker need: generate rise/culminate/set events
// for an observer over a time window, and look up current az/el for live
// steering. The propagator itself (github.com/akhenakh/sgp4) is treated as
// an external black box; this package only shapes its output.
package geometry

import (
	"fmt"
	"time"

	"github.com/akhenakh/sgp4"
)

// Observer is a fixed ground-station position.
type Observer struct {
	LatDeg float64
	LonDeg float64
	AltM   float64
}

// Event is one predicted rise-to-set pass for a single satellite.
type Event struct {
	SatName    string
	TRise      time.Time
	TCulm      time.Time
	TSet       time.Time
	MaxElevDeg float64
	AOSAzDeg   float64
	LOSAzDeg   float64
}

// LookAngles is the instantaneous azimuth/elevation of a satellite as seen
// from an observer.
type LookAngles struct {
	AzDeg  float64
	AltDeg float64
}

// stepSeconds controls the propagation granularity used by GeneratePasses.
// 1 second matches the teacher's predictor; it is fine-grained enough that
// AOS/LOS times are accurate to the second without being prohibitively slow
// over a 24h window.
const stepSeconds = 1

// FindEvents returns every pass of tle that rises above horizonDeg within
// [t0, t1), sorted by rise time.
func FindEvents(satName string, t *sgp4.TLE, obs Observer, t0, t1 time.Time, horizonDeg float64) ([]Event, error) {
	raw, err := t.GeneratePasses(obs.LatDeg, obs.LonDeg, obs.AltM, t0, t1, stepSeconds)
	if err != nil {
		return nil, fmt.Errorf("geometry: generate passes for %s: %w", satName, err)
	}

	events := make([]Event, 0, len(raw))
	for _, rp := range raw {
		if rp.MaxElevation < horizonDeg {
			continue
		}
		events = append(events, Event{
			SatName:    satName,
			TRise:      rp.AOS,
			TCulm:      rp.MaxElevationTime,
			TSet:       rp.LOS,
			MaxElevDeg: rp.MaxElevation,
			AOSAzDeg:   normalizeAz(rp.AOSAzimuth),
			LOSAzDeg:   normalizeAz(rp.LOSAzimuth),
		})
	}
	return events, nil
}

// LookAnglesNow computes the real instantaneous az/el of t as seen from obs
// at tNow: propagate to that exact instant, then convert the resulting ECI
// state to topocentric look angles. This is the same two-call shape
// (propagate, then convert) the pack's other sgp4 callers use for
// geodetic position, just converted to topocentric coordinates instead.
func LookAnglesNow(t *sgp4.TLE, obs Observer, tNow time.Time) (LookAngles, error) {
	eciState, err := t.FindPositionAtTime(tNow)
	if err != nil {
		return LookAngles{}, fmt.Errorf("geometry: propagate: %w", err)
	}

	azDeg, elDeg, _ := eciState.LookAngles(obs.LatDeg, obs.LonDeg, obs.AltM)
	return LookAngles{AzDeg: normalizeAz(azDeg), AltDeg: elDeg}, nil
}

func normalizeAz(az float64) float64 {
	for az < 0 {
		az += 360
	}
	for az >= 360 {
		az -= 360
	}
	return az
}
