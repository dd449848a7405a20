package ctl

import (
	"fmt"
	"net/url"
	"strings"
)

// SatEntry mirrors one entry in GET /api/satlist.
type SatEntry struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// SatList fetches and prints the known satellite roster with selection state.
func SatList(baseURL string, jsonOutput bool) error {
	var entries []SatEntry
	if err := getJSON(baseURL, "/api/satlist", &entries); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(entries)
	}

	fmt.Println()
	fmt.Println(header("  SATELLITES"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	for _, e := range entries {
		mark := " "
		if e.Selected {
			mark = colorize(green, "*")
		}
		fmt.Printf("  %s %s\n", mark, e.Name)
	}
	fmt.Println()
	return nil
}

// SatListOp adds or removes name from the planning roster (laikai.txt) via
// POST /api/satlist?op=add|remove&name=<name>.
func SatListOp(baseURL, op, name string) error {
	path := fmt.Sprintf("/api/satlist?op=%s&name=%s", url.QueryEscape(op), url.QueryEscape(name))
	var resp map[string]any
	return postJSON(baseURL, path, nil, &resp)
}

// Select mutates the PassID conflict-override set via
// GET /api/select?op=add|remove|clear&id=<PassID>.
func Select(baseURL, op, id string) error {
	path := fmt.Sprintf("/api/select?op=%s", url.QueryEscape(op))
	if id != "" {
		path += "&id=" + url.QueryEscape(id)
	}
	var resp map[string]any
	return getJSON(baseURL, path, &resp)
}
