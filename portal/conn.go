package portal

import "github.com/godbus/dbus/v5"

// Bus is the slice of *dbus.Conn the client uses, split out so tests and
// demo mode can run against an in-memory bus.
type Bus interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}
