package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriux26/groundstationd/internal/planner"
)

func win(name string, rise time.Time, minutes int, maxElev float64) planner.Window {
	return planner.Window{
		ID:         planner.PassID(time.UTC, name, rise),
		SatName:    name,
		TRise:      rise,
		TSet:       rise.Add(time.Duration(minutes) * time.Minute),
		MaxElevDeg: maxElev,
	}
}

func ids(ws ...planner.Window) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w.ID] = true
	}
	return m
}

func TestResolveNoSelectionPicksHigherElevation(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 15, 40)
	b := win("B", base.Add(10*time.Minute), 10, 25)

	winners := Resolve([]planner.Window{a, b}, nil)

	require.Len(t, winners, 1)
	assert.Equal(t, "A", winners[0].SatName)
}

func TestResolvePrefersSelectedPassID(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 15, 40)
	b := win("B", base.Add(10*time.Minute), 10, 25)

	winners := Resolve([]planner.Window{a, b}, ids(b))

	require.Len(t, winners, 1)
	assert.Equal(t, "B", winners[0].SatName)
}

func TestResolveThreeWayOverlapPicksSelectedHigherPeak(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 20, 35)
	b := win("B", base.Add(5*time.Minute), 20, 30)
	c := win("C", base.Add(8*time.Minute), 20, 50)

	winners := Resolve([]planner.Window{a, b, c}, ids(a, b))

	require.Len(t, winners, 1)
	assert.Equal(t, "A", winners[0].SatName)
}

func TestResolveIgnoresSelectionForSatellitesNotInGroup(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 15, 40)
	b := win("B", base.Add(10*time.Minute), 10, 25)
	other := win("C", base.Add(time.Hour), 10, 99)

	// "other" doesn't overlap a/b at all, so its PassID being selected must
	// not affect the a/b group's resolution.
	winners := Resolve([]planner.Window{a, b}, ids(other))

	require.Len(t, winners, 1)
	assert.Equal(t, "A", winners[0].SatName)
}

func TestResolveTieOnElevationEarlierRiseWins(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 15, 40)
	b := win("B", base.Add(5*time.Minute), 15, 40)

	winners := Resolve([]planner.Window{a, b}, nil)

	require.Len(t, winners, 1)
	assert.Equal(t, "A", winners[0].SatName)
}

func TestResolveNonOverlappingPassesBothSurvive(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 10, 40)
	b := win("B", base.Add(time.Hour), 10, 25)

	winners := Resolve([]planner.Window{a, b}, nil)

	assert.Len(t, winners, 2)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	a := win("A", base, 10, 40)
	b := win("B", base.Add(5*time.Minute), 10, 30)
	c := win("C", base.Add(30*time.Minute), 10, 30)

	assert.True(t, Overlaps(a, b))
	assert.False(t, Overlaps(a, c))
}
