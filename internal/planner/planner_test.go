package planner

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassIDDeterministic(t *testing.T) {
	t.Parallel()
	rise := time.Date(2026, 7, 31, 10, 15, 30, 0, time.UTC)

	id1 := PassID(time.UTC, "NOAA 19", rise)
	id2 := PassID(time.UTC, "NOAA 19", rise)

	assert.Equal(t, id1, id2)
	assert.Equal(t, "20260731_1015_NOAA_19", id1)
}

func TestPassIDFloorsToMinuteAndUsesLocalTime(t *testing.T) {
	t.Parallel()
	vilnius, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2026-07-31T10:15:59Z is 2026-07-31 13:15 in Vilnius (UTC+3 in summer).
	rise := time.Date(2026, 7, 31, 10, 15, 59, 0, time.UTC)

	assert.Equal(t, "20260731_1315_NOAA_19", PassID(vilnius, "NOAA 19", rise))
}

func TestPassIDDiffersBySatelliteAndRiseTime(t *testing.T) {
	t.Parallel()
	rise := time.Date(2026, 7, 31, 10, 15, 30, 0, time.UTC)

	assert.NotEqual(t, PassID(time.UTC, "NOAA 19", rise), PassID(time.UTC, "NOAA 18", rise))
	assert.NotEqual(t, PassID(time.UTC, "NOAA 19", rise), PassID(time.UTC, "NOAA 19", rise.Add(time.Minute)))
}

func TestPassIDStableAcrossEquivalentInputOffsets(t *testing.T) {
	t.Parallel()
	utc := time.Date(2026, 7, 31, 10, 15, 30, 0, time.UTC)
	vilnius, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	local := utc.In(vilnius)

	// Same instant regardless of which Location the input time.Time carries.
	assert.Equal(t, PassID(time.UTC, "NOAA 19", utc), PassID(time.UTC, "NOAA 19", local))
}

func TestSanitizeRestrictsCharsetAndTruncates(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ISS_ZARYA", sanitize("ISS (ZARYA)"))
	assert.Equal(t, "METEOR-M_2-3", sanitize("METEOR-M 2-3"))

	long := strings.Repeat("a", 100)
	assert.Len(t, sanitize(long), maxSanitizedLen)
}

func TestWindowsSortByRiseAscending(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	windows := []Window{
		{SatName: "C", TRise: base.Add(2 * time.Hour)},
		{SatName: "A", TRise: base},
		{SatName: "B", TRise: base.Add(time.Hour)},
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].TRise.Before(windows[j].TRise)
	})

	names := make([]string, len(windows))
	for i, w := range windows {
		names[i] = w.SatName
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}
