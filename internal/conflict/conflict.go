// Package conflict resolves overlapping pass windows to a single winner per
// time slot, ported from the original controller's choose_best_id /
// find_overlappers tie-break: highest max elevation wins, ties broken by
// earliest start time.
package conflict

import "github.com/andriux26/groundstationd/internal/planner"

// Overlaps reports whether two windows share any time in common.
func Overlaps(a, b planner.Window) bool {
	return a.TRise.Before(b.TSet) && b.TRise.Before(a.TSet)
}

// FindOverlappers returns every window in windows (other than the one at
// index i) that overlaps windows[i].
func FindOverlappers(windows []planner.Window, i int) []planner.Window {
	var out []planner.Window
	for j, w := range windows {
		if j == i {
			continue
		}
		if Overlaps(windows[i], w) {
			out = append(out, w)
		}
	}
	return out
}

// ChooseBest picks the winner among a group of mutually overlapping windows:
// argmax(max_elev_deg, -start_unix). Higher elevation wins; among equal
// elevations the earlier-starting pass wins.
func ChooseBest(group []planner.Window) planner.Window {
	best := group[0]
	for _, w := range group[1:] {
		if better(w, best) {
			best = w
		}
	}
	return best
}

func better(a, b planner.Window) bool {
	if a.MaxElevDeg != b.MaxElevDeg {
		return a.MaxElevDeg > b.MaxElevDeg
	}
	return a.TRise.Before(b.TRise)
}

// Resolve reduces a (possibly overlapping) set of candidate windows to the
// subset that survives conflict resolution: for every maximal group of
// mutually overlapping windows, only the ChooseBest survivor remains.
// selectedIDs is the operator-pinned PassID override set (spec.md §4.2,
// §4.4): within a contested group, a pinned PassID wins over elevation.
func Resolve(windows []planner.Window, selectedIDs map[string]bool) []planner.Window {
	n := len(windows)
	claimed := make([]bool, n)
	var winners []planner.Window

	for i := range windows {
		if claimed[i] {
			continue
		}

		group := []planner.Window{windows[i]}
		groupIdx := []int{i}
		for j := i + 1; j < n; j++ {
			if claimed[j] {
				continue
			}
			if Overlaps(windows[i], windows[j]) {
				group = append(group, windows[j])
				groupIdx = append(groupIdx, j)
			}
		}

		winner := pickWithPreference(group, selectedIDs)
		winners = append(winners, winner)
		for _, gi := range groupIdx {
			claimed[gi] = true
		}
	}
	return winners
}

// pickWithPreference implements choose_best_id: if exactly one window in
// the group is in scope, it wins outright; otherwise the pinned-ID
// intersection (if non-empty) is argmax'd, else the whole group is.
func pickWithPreference(group []planner.Window, selectedIDs map[string]bool) planner.Window {
	if len(selectedIDs) > 0 {
		var preferred []planner.Window
		for _, w := range group {
			if selectedIDs[w.ID] {
				preferred = append(preferred, w)
			}
		}
		if len(preferred) > 0 {
			return ChooseBest(preferred)
		}
	}
	return ChooseBest(group)
}
