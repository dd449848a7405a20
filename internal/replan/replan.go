// Package replan implements the mutex-serialized cleanup -> TLE refresh ->
// plan -> render pipeline triggered by /api/replan, ported from the original
// controller's replan_and_refresh.
package replan

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/andriux26/groundstationd/internal/conflict"
	"github.com/andriux26/groundstationd/internal/gallery"
	"github.com/andriux26/groundstationd/internal/geometry"
	"github.com/andriux26/groundstationd/internal/planner"
	"github.com/andriux26/groundstationd/internal/settings"
	"github.com/andriux26/groundstationd/internal/tle"
)

// Result summarizes one replan run.
type Result struct {
	Removed     int
	TLEUpdated  bool
	WindowCount int
	ChartPath   string
}

// Pipeline serializes replan operations behind a single process-wide mutex,
// matching spec.md's requirement that cleanup/fetch/plan/render never
// interleave with a concurrent replan.
type Pipeline struct {
	mu sync.Mutex

	Log      *log.Logger
	TLEStore *tle.Store
	Gallery  *gallery.Store
	Settings *settings.Store
	Obs      geometry.Observer
}

// Run executes the full pipeline: gallery cleanup, TLE refresh, 24h plan,
// conflict resolution, and an elevation chart of the winning schedule.
// rosterNames is the satellite-name planning roster (laikai.txt); selectedIDs
// is the operator-pinned PassID override set (sekimas.txt) used to break
// conflicts, per spec.md §4.2.
func (p *Pipeline) Run(rosterNames []string, selectedIDs []string, currentPassID string) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var res Result
	cfg := p.Settings.Current()
	loc := planner.Location(cfg.Timezone, p.Log)

	removed, err := p.Gallery.Cleanup(cfg.GalleryKeepDays, currentPassID, loc)
	if err != nil {
		return res, fmt.Errorf("replan: cleanup: %w", err)
	}
	res.Removed = removed

	if err := p.TLEStore.FetchOrLoad(); err != nil {
		return res, fmt.Errorf("replan: tle refresh: %w", err)
	}
	res.TLEUpdated = true

	windows, _, err := planner.Plan(p.TLEStore, p.Obs, cfg.AltitudeLimitDeg, rosterNames, time.Now().UTC(), loc)
	if err != nil {
		return res, fmt.Errorf("replan: plan: %w", err)
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}
	winners := conflict.Resolve(windows, selected)
	res.WindowCount = len(winners)

	chartPath, err := renderChart(winners, cfg.GalleryDir)
	if err != nil && p.Log != nil {
		p.Log.Printf("replan: chart render failed: %v", err)
	}
	res.ChartPath = chartPath

	return res, nil
}

// renderChart draws a bar chart of AOS time vs max elevation for the
// resolved schedule, the Go equivalent of the original's matplotlib
// nubraizyti_elevaciju_grafika, using gonum/plot in place of matplotlib.
func renderChart(windows []planner.Window, outDir string) (string, error) {
	if len(windows) == 0 {
		return "", nil
	}

	sorted := make([]planner.Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TRise.Before(sorted[j].TRise) })

	p := plot.New()
	p.Title.Text = "Scheduled passes: max elevation"
	p.Y.Label.Text = "Max elevation (deg)"

	values := make(plotter.Values, len(sorted))
	for i, w := range sorted {
		values[i] = w.MaxElevDeg
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", err
	}
	p.Add(bars)

	outPath := outDir + "/schedule.png"
	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
