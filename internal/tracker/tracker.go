// Package tracker drives one pass at a time through its full lifecycle:
// IDLE -> (SKIP | PRE_CAPTURE) -> CAPTURE_LEADIN -> STEERING ->
// (CAPTURE_TAILOUT | CAPTURE_POST) -> SEAL -> DONE -> IDLE. Grounded on the
// teacher's scheduler.Runner: same cancellable-capture-context pattern and
// sleep-or-cancel interruptible-wait idiom, generalized from a single
// rtl_fm capture into the satdump spawn/steer/seal pipeline spec.md
// describes. Unlike the teacher's scheduler, there is no mid-pass
// pause/skip/cancel command surface: the only way to abort a pass in
// progress is process termination, per spec.
package tracker

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/andriux26/groundstationd/internal/conflict"
	"github.com/andriux26/groundstationd/internal/current"
	"github.com/andriux26/groundstationd/internal/gallery"
	"github.com/andriux26/groundstationd/internal/geometry"
	"github.com/andriux26/groundstationd/internal/planner"
	"github.com/andriux26/groundstationd/internal/rotator"
	"github.com/andriux26/groundstationd/internal/satdump"
	"github.com/andriux26/groundstationd/internal/selection"
	"github.com/andriux26/groundstationd/internal/settings"
	"github.com/andriux26/groundstationd/internal/telemetry"
	"github.com/andriux26/groundstationd/internal/tle"
	"github.com/andriux26/groundstationd/internal/ws"
)

// Deps bundles the stores and drivers the tracker coordinates.
type Deps struct {
	Hub       *ws.Hub
	Log       *log.Logger
	Settings  *settings.Store
	TLEStore  *tle.Store
	Current   *current.Store
	Gallery   *gallery.Store
	Selection *selection.Store
	SatDump   *satdump.Runner
	Rotator   *rotator.Driver
}

// Runner owns the tracker state machine.
type Runner struct {
	d Deps

	obs geometry.Observer
}

// New returns a tracker bound to the given dependencies.
func New(d Deps) *Runner {
	return &Runner{d: d}
}

// Run is the main tracker loop: plan, resolve conflicts, wait for rise,
// capture, seal, repeat.
func (r *Runner) Run(ctx context.Context, obs geometry.Observer, selectedNames []string, setState func(string)) {
	r.obs = obs
	r.broadcastLog("info", "tracker started")

	for {
		if ctx.Err() != nil {
			return
		}

		cfg := r.d.Settings.Current()
		loc := planner.Location(cfg.Timezone, r.d.Log)
		windows, _, err := planner.Plan(r.d.TLEStore, obs, cfg.AltitudeLimitDeg, selectedNames, time.Now().UTC(), loc)
		if err != nil {
			r.broadcastLog("error", "plan failed: "+err.Error())
			if !r.sleepOrCancel(ctx, 5*time.Minute) {
				return
			}
			continue
		}

		var selectedIDs map[string]bool
		if r.d.Selection != nil {
			ids := r.d.Selection.IDs()
			selectedIDs = make(map[string]bool, len(ids))
			for _, id := range ids {
				selectedIDs[id] = true
			}
		}
		winners := conflict.Resolve(windows, selectedIDs)

		if len(winners) == 0 {
			if !r.sleepOrCancel(ctx, time.Duration(cfg.UpdateIntervalSec)*time.Second) {
				return
			}
			continue
		}

		for _, w := range winners {
			if ctx.Err() != nil {
				return
			}
			if time.Now().UTC().After(w.TSet) {
				continue
			}
			r.runPass(ctx, w, cfg, loc, setState)
		}
	}
}

func (r *Runner) runPass(ctx context.Context, w planner.Window, cfg settings.Settings, loc *time.Location, setState func(string)) {
	leadIn := time.Duration(cfg.SatdumpLeadSec) * time.Second

	outDir := r.d.Gallery.DirFor(w.ID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		r.broadcastLog("error", "mkdir pass dir: "+err.Error())
	}

	preStart := w.TRise.Add(-leadIn)
	if time.Now().UTC().Before(preStart) {
		setState("PRE_CAPTURE")
		if !r.sleepUntil(ctx, preStart) {
			r.broadcastLog("info", "pass wait interrupted, skipping")
			return
		}
	}

	setState("CAPTURE_LEADIN")

	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req := satdump.Request{
		SatName:     w.SatName,
		Source:      cfg.SatdumpSource,
		RateHz:      cfg.SatdumpRate,
		DeviceArgs:  cfg.SatdumpDeviceArgs,
		Mode:        satdump.Mode(cfg.SatdumpMode),
		OutDir:      outDir,
		LOS:         w.TSet,
		LeadSeconds: cfg.SatdumpLeadSec,
		TailSeconds: cfg.SatdumpTailSec,
	}

	dumpDone := make(chan error, 1)
	go func() {
		dumpDone <- r.d.SatDump.Run(passCtx, req)
	}()

	if !r.sleepUntil(ctx, w.TRise) {
		cancel()
		<-dumpDone
		return
	}

	setState("STEERING")
	_ = r.d.Current.Set(w.ID)

	steerCtx, steerCancel := context.WithDeadline(passCtx, w.TSet)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.steer(steerCtx, w, time.Duration(cfg.UpdateIntervalSec)*time.Second)
	}()

	<-steerCtx.Done()
	steerCancel()
	wg.Wait()

	if req.Mode == satdump.ModeStart {
		setState("CAPTURE_TAILOUT")
	} else {
		setState("CAPTURE_POST")
	}
	dumpErr := <-dumpDone
	cancel()

	if dumpErr != nil && dumpErr != context.Canceled && dumpErr != context.DeadlineExceeded {
		r.broadcastLog("error", "satdump failed: "+dumpErr.Error())
	}

	setState("SEAL")
	startLocal := w.TRise.In(loc).Format(gallery.LocalTimeLayout)
	endLocal := w.TSet.In(loc).Format(gallery.LocalTimeLayout)
	if err := r.d.Gallery.Seal(w.ID, w.SatName, startLocal, endLocal); err != nil {
		r.broadcastLog("error", "seal failed: "+err.Error())
	}

	setState("DONE")
	_ = r.d.Current.Clear()
	setState("IDLE")
}

// steer periodically points the rotator at the satellite's current look
// angles until passCtx is cancelled (LOS or external cancel). The rotator
// is only commanded while the satellite is above the horizon; a negative
// elevation tick is skipped rather than sent.
func (r *Runner) steer(ctx context.Context, w planner.Window, updateInterval time.Duration) {
	rec, ok := r.d.TLEStore.Get(w.SatName)
	if !ok || r.d.Rotator == nil {
		return
	}
	obs := r.obs

	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			la, err := geometry.LookAnglesNow(rec.TLE, obs, time.Now().UTC())
			if err != nil {
				continue
			}
			if la.AltDeg < 0 {
				continue
			}
			r.d.Rotator.Point(la.AzDeg, la.AltDeg)
			r.broadcastProgress("steering", fmt.Sprintf("az=%.1f el=%.1f", la.AzDeg, la.AltDeg))
		}
	}
}

// sleepUntil blocks in 30s steps until t or ctx cancellation, whichever
// comes first, returning false if ctx was cancelled first.
func (r *Runner) sleepUntil(ctx context.Context, t time.Time) bool {
	for {
		remaining := time.Until(t)
		if remaining <= 0 {
			return true
		}
		step := 30 * time.Second
		if remaining < step {
			step = remaining
		}
		if !r.sleepOrCancel(ctx, step) {
			return false
		}
	}
}

func (r *Runner) sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) broadcastLog(level, message string) {
	if r.d.Hub != nil {
		r.d.Hub.BroadcastJSON(telemetry.LogLine{
			Event:   telemetry.Event{Type: telemetry.EventLog, TS: telemetry.NowTS()},
			Level:   level,
			Message: message,
		})
	}
	if r.d.Log != nil {
		r.d.Log.Println(fmt.Sprintf("tracker: %s", message))
	}
}

func (r *Runner) broadcastProgress(stage, detail string) {
	if r.d.Hub != nil {
		r.d.Hub.BroadcastJSON(telemetry.Progress{
			Event:  telemetry.Event{Type: telemetry.EventProgress, TS: telemetry.NowTS()},
			Stage:  stage,
			Detail: detail,
		})
	}
}
