package station

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/andriux26/groundstationd/internal/planner"
	"github.com/andriux26/groundstationd/internal/settings"
)

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, map[string]any{
			"healthy": true,
			"checks": map[string]map[string]any{
				"tle_cache": a.tleHealth(),
				"settings":  {"ok": true},
			},
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) tleHealth() map[string]any {
	return map[string]any{
		"names": len(a.tleStore.Names()),
	}
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	state, _ := a.state.Load().(string)
	writeJSON(w, map[string]any{
		"name":           "groundstationd",
		"state":          state,
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"current_pass":   a.current.Get(),
	})
}

func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, a.settings.Current())
	case http.MethodPost:
		var s settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid settings payload: "+err.Error())
			return
		}
		if err := a.settings.Apply(s); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "GET or POST only")
	}
}

func (a *App) handleTLENames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"names": a.tleStore.Names()})
}

// handleSatList reports the TLE catalog with each name's roster membership
// on GET, and mutates the planning roster (laikai.txt) on POST
// ?op=add|remove&name=<sat>.
func (a *App) handleSatList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names := a.tleStore.Names()
		onRoster := make(map[string]bool, len(a.roster.Names()))
		for _, n := range a.roster.Names() {
			onRoster[n] = true
		}

		type entry struct {
			Name     string `json:"name"`
			Selected bool   `json:"selected"`
		}
		out := make([]entry, 0, len(names))
		for _, n := range names {
			out = append(out, entry{Name: n, Selected: onRoster[n]})
		}
		writeJSON(w, out)
	case http.MethodPost:
		op := r.URL.Query().Get("op")
		name := r.URL.Query().Get("name")
		if name == "" {
			jsonError(w, http.StatusBadRequest, "missing name")
			return
		}
		var err error
		switch op {
		case "add":
			err = a.roster.Add(name)
		case "remove":
			err = a.roster.Remove(name)
		default:
			jsonError(w, http.StatusBadRequest, "op must be add or remove")
			return
		}
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]any{"ok": true, "names": a.roster.Names()})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "GET or POST only")
	}
}

func (a *App) handleTLEText(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		text, err := a.tleStore.Text()
		if err != nil {
			jsonError(w, http.StatusNotFound, "no tle data on disk")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, text)
	default:
		jsonError(w, http.StatusMethodNotAllowed, "GET only")
	}
}

func (a *App) handleTLEManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if err := a.tleStore.SaveText(string(b)); err != nil {
		jsonError(w, http.StatusBadRequest, "parse tle text: "+err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "names": a.tleStore.Names()})
}

func (a *App) handleReplan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	currentID := a.current.Get()
	res, err := a.replan.Run(a.roster.Names(), a.selection.IDs(), currentID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, res)
}

func (a *App) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	currentID := a.current.Get()
	loc := planner.Location(a.settings.Current().Timezone, a.log)
	removed, err := a.gallery.Cleanup(a.settings.Current().GalleryKeepDays, currentID, loc)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "removed": removed})
}

// handleSelect mutates the PassID conflict-override set (spec.md §4.2) via
// GET ?op=add|remove|clear&id=<PassID>. Unlike settings or the roster, there
// is no POST-body-replace form: selection membership only ever changes one
// PassID at a time.
func (a *App) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	op := r.URL.Query().Get("op")
	if op == "" {
		writeJSON(w, map[string]any{"ids": a.selection.IDs()})
		return
	}

	var mirrorErr, err error
	switch op {
	case "add":
		id := r.URL.Query().Get("id")
		if id == "" {
			jsonError(w, http.StatusBadRequest, "missing id")
			return
		}
		mirrorErr, err = a.selection.Add(id)
	case "remove":
		id := r.URL.Query().Get("id")
		if id == "" {
			jsonError(w, http.StatusBadRequest, "missing id")
			return
		}
		mirrorErr, err = a.selection.Remove(id)
	case "clear":
		mirrorErr, err = a.selection.Clear()
	default:
		jsonError(w, http.StatusBadRequest, "op must be add, remove, or clear")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if mirrorErr != nil {
		a.log.Printf("selection: text mirror write failed: %v", mirrorErr)
	}
	writeJSON(w, map[string]any{"ok": true, "ids": a.selection.IDs()})
}

// handleLang changes the UI language. A bare GET reports the current
// setting as JSON; GET ?code=lt|en changes it and 302-redirects back to the
// referring page, matching the legacy browser-menu language switcher.
func (a *App) handleLang(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if code := r.URL.Query().Get("code"); code != "" {
			cur := a.settings.Current()
			cur.Lang = code
			if err := a.settings.Apply(cur); err != nil {
				jsonError(w, http.StatusInternalServerError, err.Error())
				return
			}
			ref := r.Header.Get("Referer")
			if ref == "" {
				ref = "/"
			}
			http.Redirect(w, r, ref, http.StatusFound)
			return
		}
		writeJSON(w, map[string]any{"lang": a.settings.Current().Lang, "available": a.i18n.Languages()})
	case http.MethodPost:
		var body struct {
			Lang string `json:"lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		cur := a.settings.Current()
		cur.Lang = body.Lang
		if err := a.settings.Apply(cur); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "GET or POST only")
	}
}
