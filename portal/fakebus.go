package portal

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

// FakeBus is an in-memory stand-in for the session bus, used by tests and
// the -fakebus demo mode. It plays the broker's half of the protocol:
// CreateSession replies with a request path and, when AutoRespond is set,
// immediately delivers the Request.Response signal.
type FakeBus struct {
	mu     sync.Mutex
	signal chan<- *dbus.Signal

	// Broker behavior knobs.
	Version       uint32
	RequestPath   dbus.ObjectPath
	SessionHandle string // empty: respond without session_handle
	AutoRespond   bool
	Fail          map[string]error // unqualified method name -> error reply

	calls          []FakeCall
	addedMatches   int
	removedMatches int
}

// FakeCall records one method call issued through the fake bus.
type FakeCall struct {
	Method string
	Args   []interface{}
}

func NewFakeBus() *FakeBus {
	return &FakeBus{
		Version:       1,
		RequestPath:   dbus.ObjectPath("/org/freedesktop/portal/desktop/request/_fake/waykeys"),
		SessionHandle: "/org/freedesktop/portal/desktop/session/_fake/waykeys",
		AutoRespond:   true,
		Fail:          make(map[string]error),
	}
}

func (f *FakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return fakeObject{bus: f, dest: dest, path: path}
}

func (f *FakeBus) AddMatchSignal(options ...dbus.MatchOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedMatches++
	return nil
}

func (f *FakeBus) RemoveMatchSignal(options ...dbus.MatchOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedMatches++
	return nil
}

func (f *FakeBus) Signal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signal = ch
}

func (f *FakeBus) RemoveSignal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signal == ch {
		f.signal = nil
	}
}

// Activate delivers an Activated signal for the given shortcut id.
func (f *FakeBus) Activate(id string) { f.emitActivation("Activated", id) }

// Deactivate delivers a Deactivated signal for the given shortcut id.
func (f *FakeBus) Deactivate(id string) { f.emitActivation("Deactivated", id) }

// RespondToSession delivers the Request.Response signal by hand; used when
// AutoRespond is off to control the timing.
func (f *FakeBus) RespondToSession() {
	f.emit(&dbus.Signal{
		Path: f.RequestPath,
		Name: RequestInterface + ".Response",
		Body: []interface{}{uint32(0), f.sessionResults()},
	})
}

// Calls returns a copy of all recorded method calls.
func (f *FakeBus) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallCount counts calls to the unqualified method name.
func (f *FakeBus) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if shortMethod(c.Method) == method {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call to the unqualified method name.
func (f *FakeBus) LastCall(method string) (FakeCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if shortMethod(f.calls[i].Method) == method {
			return f.calls[i], true
		}
	}
	return FakeCall{}, false
}

// MatchBalance returns added and removed match counts, for listener-leak
// assertions.
func (f *FakeBus) MatchBalance() (added, removed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addedMatches, f.removedMatches
}

func (f *FakeBus) emitActivation(member, id string) {
	f.emit(&dbus.Signal{
		Path: Path,
		Name: Interface + "." + member,
		Body: []interface{}{
			dbus.ObjectPath(f.SessionHandle),
			id,
			uint64(0),
			map[string]dbus.Variant{},
		},
	})
}

func (f *FakeBus) emit(sig *dbus.Signal) {
	f.mu.Lock()
	ch := f.signal
	f.mu.Unlock()
	if ch != nil {
		ch <- sig
	}
}

func (f *FakeBus) sessionResults() map[string]dbus.Variant {
	results := map[string]dbus.Variant{}
	if f.SessionHandle != "" {
		results["session_handle"] = dbus.MakeVariant(f.SessionHandle)
	}
	return results
}

func shortMethod(method string) string {
	if i := strings.LastIndex(method, "."); i >= 0 {
		return method[i+1:]
	}
	return method
}

type fakeObject struct {
	bus  *FakeBus
	dest string
	path dbus.ObjectPath
}

func (o fakeObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f := o.bus
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Method: method, Args: args})
	err := f.Fail[shortMethod(method)]
	f.mu.Unlock()

	if err != nil {
		return &dbus.Call{Err: err}
	}

	switch shortMethod(method) {
	case "CreateSession":
		if f.AutoRespond {
			// Delivered through the signal channel; the client picks it up
			// on its loop after the call returns, like a real async reply.
			f.RespondToSession()
		}
		return &dbus.Call{Body: []interface{}{f.RequestPath}}
	case "BindShortcuts", "ConfigureShortcuts":
		return &dbus.Call{Body: []interface{}{f.RequestPath}}
	}
	return &dbus.Call{}
}

func (o fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return o.Call(method, flags, args...)
}

func (o fakeObject) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	return &dbus.Call{Err: errors.New("fakebus: Go not supported")}
}

func (o fakeObject) GoWithContext(ctx context.Context, method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	return &dbus.Call{Err: errors.New("fakebus: Go not supported")}
}

func (o fakeObject) AddMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (o fakeObject) RemoveMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (o fakeObject) GetProperty(p string) (dbus.Variant, error) {
	if p == Interface+".version" {
		return dbus.MakeVariant(o.bus.Version), nil
	}
	return dbus.Variant{}, errors.New("fakebus: no such property " + p)
}

func (o fakeObject) StoreProperty(p string, value interface{}) error {
	v, err := o.GetProperty(p)
	if err != nil {
		return err
	}
	return v.Store(value)
}

func (o fakeObject) SetProperty(p string, v interface{}) error {
	return errors.New("fakebus: properties are read-only")
}

func (o fakeObject) Destination() string   { return o.dest }
func (o fakeObject) Path() dbus.ObjectPath { return o.path }
