package main

import (
	"flag"
	"fmt"
	"os"

	"waykeys/dialog"
	"waykeys/doctor"
	"waykeys/log"
)

var version = "dev"

// notify is set by initGUI when built with -tags gui; run() falls back to
// the stderr notifier otherwise.
var notify dialog.Notifier

func run() {
	doctorMode := flag.Bool("doctor", false, "run portal diagnostics and exit")
	demoMode := flag.Bool("demo", false, "drive the bridge with a stdin-scripted fake host")
	fakeBus := flag.Bool("fakebus", false, "demo mode: use an in-memory bus instead of the session bus")
	logPath := flag.String("logpath", "", "directory for log files")
	showVersion := flag.Bool("version", false, "print version and exit")
	// Consumed by main before flag parsing; declared so -gui parses cleanly.
	_ = flag.Bool("gui", false, "show portal errors in a dialog window (requires -tags gui build)")
	flag.Parse()

	if *showVersion {
		fmt.Println("waykeys", version)
		return
	}
	if *doctorMode {
		os.Exit(doctor.Run())
	}

	dir, err := log.ResolveDir(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not resolve log directory: %v\n", err)
	} else {
		log.SetDir(dir)
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
		defer log.Close()
	}

	if notify == nil {
		notify = dialog.Stderr{}
	}

	if *demoMode {
		runDemo(*fakeBus)
		return
	}

	fmt.Fprintln(os.Stderr, "waykeys bridges an application's hotkeys to the desktop's GlobalShortcuts portal.")
	fmt.Fprintln(os.Stderr, "It is meant to be embedded by the host application (see the portal package).")
	fmt.Fprintln(os.Stderr, "Standalone modes: -doctor (diagnose the portal), -demo (scripted fake host).")
	os.Exit(2)
}
