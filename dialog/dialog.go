// Package dialog surfaces broker failures to the user.
package dialog

import (
	"fmt"
	"os"

	"waykeys/log"
)

// Notifier shows a user-visible error. Implementations must be safe to
// call from the bridge's owning goroutine.
type Notifier interface {
	Error(title, text string)
}

// Stderr is the headless Notifier: it prints to stderr and the diagnostics
// log. Used unless the binary is built with -tags gui.
type Stderr struct{}

func (Stderr) Error(title, text string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, text)
	log.Errorf("%s: %s", title, text)
}

// Record is a Notifier for tests; it keeps every reported error.
type Record struct {
	Titles []string
	Texts  []string
}

func (r *Record) Error(title, text string) {
	r.Titles = append(r.Titles, title)
	r.Texts = append(r.Texts, text)
}
