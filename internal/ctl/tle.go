package ctl

import "fmt"

// TLEInfo fetches GET /api/tle_names and prints the current roster size.
func TLEInfo(baseURL string, jsonOutput bool) error {
	var resp struct {
		Names []string `json:"names"`
	}
	if err := getJSON(baseURL, "/api/tle_names", &resp); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(resp)
	}
	fmt.Printf("\n  %d satellites in roster\n\n", len(resp.Names))
	return nil
}

// TLEText fetches GET /api/tle_txt and prints it verbatim.
func TLEText(baseURL string) error {
	_, body, err := getRaw(baseURL, "/api/tle_txt")
	if err != nil {
		return err
	}
	fmt.Print(string(body))
	return nil
}
