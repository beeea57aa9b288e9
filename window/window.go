// Package window exports the host's parent-window identifier for portal
// calls.
package window

// Exporter maps the host's native window to a portal parent_window
// identifier, for example "wayland:<xdg_foreign handle>" or "x11:<xid>".
// The host application supplies one; without it the portal shows an
// unparented binding prompt.
type Exporter func() string

// None is the exporter used when no window is available. An empty
// identifier is valid and must not be treated as an error.
func None() string { return "" }

// Fixed returns an Exporter that always yields token. Useful when the host
// exports its window identifier once at startup.
func Fixed(token string) Exporter {
	return func() string { return token }
}
