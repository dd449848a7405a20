package ctl

import "fmt"

// ReplanResult mirrors replan.Result.
type ReplanResult struct {
	Removed     int    `json:"Removed"`
	TLEUpdated  bool   `json:"TLEUpdated"`
	WindowCount int    `json:"WindowCount"`
	ChartPath   string `json:"ChartPath"`
}

// Replan triggers POST /api/replan and prints the result.
func Replan(baseURL string, jsonOutput bool) error {
	var res ReplanResult
	if err := postJSON(baseURL, "/api/replan", nil, &res); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(res)
	}
	fmt.Printf("\n  replan complete: %d windows, %d stale gallery entries removed\n\n", res.WindowCount, res.Removed)
	return nil
}

// Cleanup triggers POST /api/cleanup and prints the result.
func Cleanup(baseURL string, jsonOutput bool) error {
	var res struct {
		OK      bool `json:"ok"`
		Removed int  `json:"removed"`
	}
	if err := postJSON(baseURL, "/api/cleanup", nil, &res); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(res)
	}
	fmt.Printf("\n  cleanup complete: %d entries removed\n\n", res.Removed)
	return nil
}
