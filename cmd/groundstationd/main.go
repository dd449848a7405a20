// Groundstationd is the main daemon for the ground station controller.
//
// It loads settings and TLE data, optionally offers a 30-second interactive
// satellite-selection menu on stdin, then starts the HTTP/WebSocket control
// plane and the tracker loop that drives the antenna rotator and the
// external capture subprocess. Shutdown is handled gracefully on SIGINT or
// SIGTERM.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/andriux26/groundstationd/internal/config"
	"github.com/andriux26/groundstationd/internal/current"
	"github.com/andriux26/groundstationd/internal/gallery"
	"github.com/andriux26/groundstationd/internal/geometry"
	"github.com/andriux26/groundstationd/internal/i18n"
	"github.com/andriux26/groundstationd/internal/roster"
	"github.com/andriux26/groundstationd/internal/selection"
	"github.com/andriux26/groundstationd/internal/settings"
	"github.com/andriux26/groundstationd/internal/station"
	"github.com/andriux26/groundstationd/internal/tle"
)

const menuTimeout = 30 * time.Second

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "Path to config TOML (auto-discovers if omitted)")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides config)")
		noMenu     = pflag.Bool("no-menu", false, "Skip the startup satellite-selection menu and use the saved selection")
	)
	pflag.Parse()

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = config.FindConfigFile()
	}

	logger := log.New(os.Stdout, "groundstationd ", log.LstdFlags|log.Lmicroseconds)

	var cfg config.Config
	if cfgFile == "" {
		cfg = config.Default()
		logger.Printf("no config file found, using defaults")
		logger.Printf("create %s/config.toml to customize", config.DefaultConfigDir())
	} else {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		logger.Printf("loaded config from %s", cfgFile)
	}

	if err := config.EnsureDirectories(cfg); err != nil {
		log.Fatalf("directory setup: %v", err)
	}

	settingsPath := filepath.Join(cfg.BaseDir, "nustatymai.txt")
	settingsStore, err := settings.Load(settingsPath)
	if err != nil {
		log.Fatalf("settings load failed: %v", err)
	}
	cur := settingsStore.Current()

	tleStore := tle.New(filepath.Join(cfg.BaseDir, "tle.txt"), cur.TLEURL, cur.UseManualTLE)
	if err := tleStore.FetchOrLoad(); err != nil {
		logger.Fatalf("tle: %v", err)
	}
	logger.Printf("tle: %d satellites loaded", len(tleStore.Names()))

	rosterStore, err := roster.Load(filepath.Join(cfg.BaseDir, "laikai.txt"))
	if err != nil {
		log.Fatalf("roster load failed: %v", err)
	}

	selectionStore, err := selection.Load(
		filepath.Join(cfg.BaseDir, "selection.json"),
		filepath.Join(cfg.BaseDir, "sekimas.txt"),
	)
	if err != nil {
		log.Fatalf("selection load failed: %v", err)
	}

	currentStore, err := current.Load(filepath.Join(cfg.BaseDir, "current.json"))
	if err != nil {
		log.Fatalf("current-pass load failed: %v", err)
	}

	galleryStore := gallery.New(filepath.Join(cfg.BaseDir, cur.GalleryDir))

	catalog, err := i18n.LoadDir(filepath.Join(cfg.BaseDir, "kalbos"))
	if err != nil {
		logger.Printf("i18n: %v (translations disabled)", err)
	}

	if !*noMenu {
		runStartupMenu(tleStore, rosterStore, logger)
	} else {
		logger.Printf("startup menu skipped (--no-menu); using saved roster (%d satellites)", len(rosterStore.Names()))
	}

	bindAddr := *bind
	if bindAddr == "" {
		bindAddr = cfg.Server.Bind
	}

	app := station.New(station.Options{
		Logger:    logger,
		Cfg:       cfg,
		Bind:      bindAddr,
		Settings:  settingsStore,
		Roster:    rosterStore,
		Selection: selectionStore,
		TLEStore:  tleStore,
		Current:   currentStore,
		Gallery:   galleryStore,
		I18n:      catalog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := geometry.Observer{LatDeg: cur.KoordLat, LonDeg: cur.KoordLon}

	if err := app.Run(ctx, obs); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("groundstationd failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
}

// runStartupMenu waits up to menuTimeout for an ENTER keypress on stdin. If
// none arrives, the saved roster is kept untouched. If the operator does
// respond, the full TLE catalog is listed and the operator types a
// comma-separated list of numbers or satellite names to replace the
// planning roster.
func runStartupMenu(tleStore *tle.Store, rosterStore *roster.Store, logger *log.Logger) {
	fmt.Printf("\nPress ENTER within %d seconds to choose tracked satellites (default: keep saved selection)...\n", int(menuTimeout.Seconds()))

	lines := make(chan string, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		lines <- line
	}()

	select {
	case <-lines:
	case <-time.After(menuTimeout):
		fmt.Println("no input, keeping saved roster")
		return
	}

	names := tleStore.Names()
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Println("no satellites in TLE catalog, keeping saved roster")
		return
	}

	fmt.Println("\n  SATELLITES")
	for i, n := range names {
		fmt.Printf("  %2d) %s\n", i+1, n)
	}
	fmt.Print("\nEnter numbers or names, comma-separated (blank to keep current): ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		fmt.Println("keeping saved roster")
		return
	}

	chosen := make([]string, 0)
	for _, tok := range strings.Split(answer, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if idx, err := strconv.Atoi(tok); err == nil {
			if idx >= 1 && idx <= len(names) {
				chosen = append(chosen, names[idx-1])
			}
			continue
		}
		chosen = append(chosen, tok)
	}

	if len(chosen) == 0 {
		fmt.Println("no valid entries, keeping saved roster")
		return
	}

	if err := rosterStore.Set(chosen); err != nil {
		logger.Printf("roster: save failed: %v", err)
		return
	}
	fmt.Printf("roster updated: %s\n", strings.Join(chosen, ", "))
}
