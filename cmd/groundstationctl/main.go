// Groundstationctl is the command-line client for monitoring and
// controlling a running groundstationd instance. It connects over HTTP and
// WebSocket to query status and stream live events from the daemon.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/andriux26/groundstationd/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "settings":
		err = ctl.ShowSettings(*host, *jsonOut)

	case "satlist":
		if len(subArgs) == 0 {
			err = ctl.SatList(*host, *jsonOut)
		} else if len(subArgs) == 2 && (subArgs[0] == "add" || subArgs[0] == "remove") {
			err = ctl.SatListOp(*host, subArgs[0], subArgs[1])
		} else {
			err = fmt.Errorf("satlist add|remove NAME, or satlist with no args to list")
		}

	case "select":
		if len(subArgs) == 0 {
			err = fmt.Errorf("select requires an op: add ID | remove ID | clear")
		} else {
			op := subArgs[0]
			id := ""
			if len(subArgs) > 1 {
				id = subArgs[1]
			}
			if op != "clear" && id == "" {
				err = fmt.Errorf("select %s requires a PassID", op)
			} else {
				err = ctl.Select(*host, op, id)
			}
		}

	case "tle-info":
		err = ctl.TLEInfo(*host, *jsonOut)

	case "tle-txt":
		err = ctl.TLEText(*host)

	case "replan":
		err = ctl.Replan(*host, *jsonOut)

	case "cleanup":
		err = ctl.Cleanup(*host, *jsonOut)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(strings.TrimLeft(`
  groundstationctl — ground station control CLI

  USAGE
    groundstationctl [flags] <command> [args]

  COMMANDS (query)
    status          Show daemon state, uptime, and current pass
    health          Check daemon health
    version         Show CLI and daemon version information
    settings        Show the daemon's operator settings
    satlist                 List the TLE roster and planning-roster membership
    tle-info                Show how many satellites are loaded
    tle-txt                 Print the raw on-disk TLE roster

  COMMANDS (control)
    satlist add|remove NAME   Add or remove a satellite from the planning roster
    select add|remove ID      Pin or unpin a PassID to override conflict resolution
    select clear               Clear the PassID override set
    replan                  Force cleanup, TLE refresh, and replan
    cleanup                 Force gallery retention cleanup

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  EXAMPLES
    groundstationctl status
    groundstationctl satlist
    groundstationctl satlist add "NOAA 19"
    groundstationctl select add 20260731_1015_NOAA_19
    groundstationctl select clear
    groundstationctl replan
    groundstationctl watch --filter state,log,progress

`, "\n"))
}
