package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"usbspeed/internal/config"
	"usbspeed/internal/speed"
	"usbspeed/internal/usbdev"
)

// altName is the second recognized program name. Invoked under it, the tool
// always queries, whatever other flags were given.
const altName = "usbspeedinfo"

func main() {
	os.Exit(run(filepath.Base(os.Args[0]), os.Args[1:], os.Stdout, os.Stderr))
}

func run(invokedAs string, args []string, stdout, stderr io.Writer) int {
	queryOnly := invokedAs == altName

	fs := flag.NewFlagSet(invokedAs, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, invokedAs, queryOnly) }

	var (
		help       bool
		query      bool
		full       bool
		high       bool
		list       bool
		version    bool
		setName    string
		configPath string
	)
	fs.BoolVar(&help, "h", false, "show help")
	fs.BoolVar(&help, "help", false, "show help")
	fs.BoolVar(&query, "q", false, "show the current speed mode")
	fs.BoolVar(&query, "query", false, "show the current speed mode")
	fs.StringVar(&setName, "s", "", "set the speed mode (full|high)")
	fs.StringVar(&setName, "set", "", "set the speed mode (full|high)")
	fs.BoolVar(&full, "full", false, "switch to full-speed (USB 1.1) mode")
	fs.BoolVar(&high, "high", false, "switch to high-speed (USB 2.0) mode")
	fs.BoolVar(&list, "l", false, "list attached USB devices")
	fs.BoolVar(&list, "list", false, "list attached USB devices")
	fs.BoolVar(&version, "version", false, "show version information")
	fs.StringVar(&configPath, "config", config.DefaultPath, "tool configuration file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// The flag package already printed the error and the help text.
		return 1
	}

	if help {
		usage(stdout, invokedAs, queryOnly)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", invokedAs, err)
		return 1
	}
	ctrl := speed.NewController(cfg.ControlPath)

	if queryOnly {
		return doQuery(ctrl, invokedAs, stdout, stderr)
	}

	switch {
	case version:
		printVersion(stdout)
		return 0
	case list:
		return doList(cfg.SysfsUSBPath, invokedAs, stdout, stderr)
	case setName != "":
		return doSet(ctrl, invokedAs, func() error { return ctrl.SetNamed(setName) }, stdout, stderr)
	case full:
		return doSet(ctrl, invokedAs, func() error { return ctrl.Set(speed.Full) }, stdout, stderr)
	case high:
		return doSet(ctrl, invokedAs, func() error { return ctrl.Set(speed.High) }, stdout, stderr)
	case query:
		return doQuery(ctrl, invokedAs, stdout, stderr)
	}

	usage(stdout, invokedAs, queryOnly)
	return 0
}

// doSet applies one set operation and, on success, shows the resulting mode.
// A failed set is a hard failure.
func doSet(ctrl *speed.Controller, invokedAs string, set func() error, stdout, stderr io.Writer) int {
	if err := set(); err != nil {
		reportError(stderr, invokedAs, err)
		return 1
	}
	return doQuery(ctrl, invokedAs, stdout, stderr)
}

// doQuery shows the current mode. A missing control cell is informational:
// the driver simply is not loaded, which is worth one stderr line, not a
// process failure.
func doQuery(ctrl *speed.Controller, invokedAs string, stdout, stderr io.Writer) int {
	rep, err := ctrl.Query()
	if err != nil {
		reportError(stderr, invokedAs, err)
		return 0
	}
	fmt.Fprintf(stdout, "USB controller speed mode: %s\n\n%s\n", rep.Mode.Label(), rep.Explanation)
	return 0
}

func doList(root, invokedAs string, stdout, stderr io.Writer) int {
	devs, err := usbdev.Scan(root)
	if err != nil {
		fmt.Fprintf(stderr, "%s: list devices: %v\n", invokedAs, err)
		return 1
	}
	if len(devs) == 0 {
		fmt.Fprintln(stdout, "no USB devices attached")
		return 0
	}
	for _, d := range devs {
		id := d.VendorID + ":" + d.ProductID
		if d.VendorID == "" || d.ProductID == "" {
			id = "unknown"
		}
		fmt.Fprintf(stdout, "Bus %03d Device %03d  ID %s  %s\n", d.Bus, d.Dev, id, usbdev.SpeedLabel(d.Speed))
	}
	return 0
}

func reportError(stderr io.Writer, invokedAs string, err error) {
	if errors.Is(err, speed.ErrNotFound) {
		fmt.Fprintf(stderr, "%s: %v (USB controller driver not loaded)\n", invokedAs, err)
		return
	}
	fmt.Fprintf(stderr, "%s: %v\n", invokedAs, err)
}

func printVersion(w io.Writer) {
	version := "(devel)"
	commit := ""
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		if bi.Main.Version != "" {
			version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if len(s.Value) >= 12 {
					commit = s.Value[:12]
				} else {
					commit = s.Value
				}
			case "vcs.modified":
				if s.Value == "true" {
					commit += "-dirty"
				}
			}
		}
	}
	if commit != "" {
		fmt.Fprintf(w, "usbspeed %s (%s, %s)\n", version, commit, runtime.Version())
		return
	}
	fmt.Fprintf(w, "usbspeed %s (%s)\n", version, runtime.Version())
}

func usage(w io.Writer, invokedAs string, queryOnly bool) {
	if queryOnly {
		fmt.Fprintf(w, `Usage: %s

Show the current operating speed of the USB controller.

  -h, --help   show this help text
`, invokedAs)
		return
	}

	fmt.Fprintf(w, `Usage: %s [option]

Query or set the operating speed of the USB controller.

  -h, --help             show this help text
  -q, --query            show the current speed mode
  -s, --set <full|high>  set the speed mode by name, then show it
      --full             switch to full-speed (USB 1.1) mode, then show it
      --high             switch to high-speed (USB 2.0) mode, then show it
  -l, --list             list attached USB devices and their speeds
      --version          show version information
      --config <path>    tool configuration file (default %s)

With no option the help text is shown. High-speed mode gives full USB 2.0
throughput; full-speed mode improves compatibility with older USB 1.1
devices.
`, invokedAs, config.DefaultPath)
}
