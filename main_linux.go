//go:build linux

package main

import "os"

func main() {
	// Check for -gui early; the Fyne loop must own the main thread.
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	run()
}
