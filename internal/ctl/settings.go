package ctl

import (
	"fmt"
	"strings"
)

// Settings mirrors settings.Settings for display purposes.
type Settings map[string]any

// ShowSettings fetches and prints the daemon's current settings.
func ShowSettings(baseURL string, jsonOutput bool) error {
	var s Settings
	if err := getJSON(baseURL, "/api/settings", &s); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(s)
	}

	fmt.Println()
	fmt.Println(header("  SETTINGS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	for k, v := range s {
		fmt.Printf("  %-22s %v\n", colorize(dim, k+":"), v)
	}
	fmt.Println()
	return nil
}
