//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "waykeys requires a Linux desktop session with the GlobalShortcuts portal")
	os.Exit(1)
}
