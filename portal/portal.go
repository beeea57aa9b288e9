// Package portal negotiates a GlobalShortcuts session with the desktop
// portal, mirrors the host's hotkeys into it, and routes activation signals
// back to host actions. Under a sandboxed Wayland session the application
// cannot grab key combinations itself; the desktop shell grabs them on our
// behalf and tells us over the bus.
package portal

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"waykeys/dialog"
	"waykeys/host"
	"waykeys/log"
	"waykeys/shortcuts"
	"waykeys/window"
)

// The object and interface names are the wire contract and must match the
// portal exactly.
const (
	Dest             = "org.freedesktop.portal.Desktop"
	Path             = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	Interface        = "org.freedesktop.portal.GlobalShortcuts"
	RequestInterface = "org.freedesktop.portal.Request"
	SessionInterface = "org.freedesktop.portal.Session"
)

// shortcutEntry marshals as the (sa{sv}) struct BindShortcuts expects.
type shortcutEntry struct {
	ID      string
	Options map[string]dbus.Variant
}

// Client is the bridge between the host's hotkey registry and the portal.
//
// A single goroutine owns all client state and every host API call; bus
// signals and external triggers are marshalled onto it through the signal
// and queue channels. Exported methods are safe to call from any goroutine.
type Client struct {
	bus          Bus
	host         host.Host
	exportWindow window.Exporter
	notify       dialog.Notifier

	// Generated once; stable for the client's lifetime.
	handleToken        string
	sessionHandleToken string

	session     dbus.ObjectPath
	requestPath dbus.ObjectPath
	loaded      bool
	shortcuts   shortcuts.Set

	signals   chan *dbus.Signal
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New builds a Client and starts its owning goroutine. The exporter may be
// nil when no window is available; notify must not be nil.
func New(bus Bus, h host.Host, exporter window.Exporter, notify dialog.Notifier) *Client {
	c := &Client{
		bus:                bus,
		host:               h,
		exportWindow:       exporter,
		notify:             notify,
		handleToken:        newToken(),
		sessionHandleToken: newToken(),
		shortcuts:          make(shortcuts.Set),
		signals:            make(chan *dbus.Signal, 16),
		queue:              make(chan func(), 16),
		done:               make(chan struct{}),
	}
	c.bus.Signal(c.signals)
	go c.run()
	return c
}

// newToken returns a portal-legal handle token. uuid hyphens are stripped;
// tokens become element names under the caller's request path and must be
// valid object-path elements.
func newToken() string {
	return "waykeys_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateSession issues the asynchronous create-session request. The result
// arrives later as a Request.Response signal; until then the session stays
// unset and all rebind activity is gated off.
func (c *Client) CreateSession() {
	c.post(c.createSession)
}

// ConfigureShortcuts opens the desktop's native shortcut-configuration UI
// for this session.
func (c *Client) ConfigureShortcuts() {
	c.post(c.configureShortcuts)
}

// Close stops dispatch and removes the activation matches. Replies still in
// flight are dropped by the closed loop.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		for _, member := range []string{"Activated", "Deactivated"} {
			if err := c.bus.RemoveMatchSignal(activationMatch(member)...); err != nil {
				log.Warnf("removing %s match: %v", member, err)
			}
		}
		c.bus.RemoveSignal(c.signals)
	})
}

// Version reads the GlobalShortcuts interface version property.
func Version(bus Bus) (uint32, error) {
	v, err := bus.Object(Dest, Path).GetProperty(Interface + ".version")
	if err != nil {
		return 0, fmt.Errorf("reading portal version: %w", err)
	}
	version, ok := v.Value().(uint32)
	if !ok {
		return 0, fmt.Errorf("unexpected version type %T", v.Value())
	}
	return version, nil
}

func (c *Client) post(fn func()) {
	select {
	case c.queue <- fn:
	case <-c.done:
	}
}

func (c *Client) run() {
	events := c.host.Events()
	for {
		select {
		case <-c.done:
			return
		case fn := <-c.queue:
			fn()
		case sig, ok := <-c.signals:
			if !ok {
				return
			}
			c.handleSignal(sig)
		case ev := <-events:
			c.handleEvent(ev)
		}
	}
}

func (c *Client) createSession() {
	log.Info("creating session request")

	options := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(c.handleToken),
		"session_handle_token": dbus.MakeVariant(c.sessionHandleToken),
	}
	call := c.bus.Object(Dest, Path).Call(Interface+".CreateSession", 0, options)
	if call.Err != nil {
		c.notify.Error("Failed to create global shortcuts session", call.Err.Error())
		log.Errorf("failed to create session: %v", call.Err)
		return
	}

	var request dbus.ObjectPath
	if err := call.Store(&request); err != nil {
		c.notify.Error("Failed to create global shortcuts session", err.Error())
		log.Errorf("unexpected create session reply: %v", err)
		return
	}
	c.requestPath = request

	if err := c.bus.AddMatchSignal(responseMatch(request)...); err != nil {
		log.Errorf("subscribing to session response: %v", err)
	}
}

func (c *Client) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case RequestInterface + ".Response":
		if c.requestPath != "" && sig.Path == c.requestPath {
			c.sessionResponse(sig)
		}
	case Interface + ".Activated":
		c.dispatch(sig, true)
	case Interface + ".Deactivated":
		c.dispatch(sig, false)
	}
}

func (c *Client) sessionResponse(sig *dbus.Signal) {
	// The response listener is one-shot; drop it before anything else so
	// repeated session attempts don't accumulate matches.
	if err := c.bus.RemoveMatchSignal(responseMatch(c.requestPath)...); err != nil {
		log.Warnf("removing session response match: %v", err)
	}
	c.requestPath = ""

	if handle, ok := sessionHandle(sig); ok {
		c.session = dbus.ObjectPath(handle)
		log.SessionCreated(handle)
	} else {
		log.Warn("session creation response did not contain session_handle")
	}

	for _, member := range []string{"Activated", "Deactivated"} {
		if err := c.bus.AddMatchSignal(activationMatch(member)...); err != nil {
			log.Errorf("subscribing to %s: %v", member, err)
		}
	}

	if c.session == "" {
		return
	}
	if c.loaded {
		c.rebind()
	} else {
		log.Info("deferring shortcut binding until the host finishes loading")
	}
}

// sessionHandle extracts results["session_handle"] from a Response signal
// body of shape (u, a{sv}).
func sessionHandle(sig *dbus.Signal) (string, bool) {
	if len(sig.Body) < 2 {
		return "", false
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return "", false
	}
	v, ok := results["session_handle"]
	if !ok {
		return "", false
	}
	handle, ok := v.Value().(string)
	if !ok || handle == "" {
		return "", false
	}
	return handle, true
}

func (c *Client) handleEvent(ev host.Event) {
	if ev == host.FinishedLoading {
		c.loaded = true
	}
	log.Infof("host event received: %s", ev)

	if !c.loaded || c.session == "" {
		log.Infof("ignoring %s event, session not yet created or host still loading", ev)
		return
	}
	c.rebind()
}

func (c *Client) rebind() {
	c.shortcuts = shortcuts.Rebuild(c.host)
	c.bindShortcuts()
}

func (c *Client) dispatch(sig *dbus.Signal, pressed bool) {
	if len(sig.Body) < 2 {
		return
	}
	id, _ := sig.Body[1].(string)
	// Unknown identifiers (stale or foreign sessions) are ignored.
	if sc, ok := c.shortcuts[id]; ok {
		sc.Callback(pressed)
	}
}

func (c *Client) bindShortcuts() {
	log.Infof("binding %d shortcuts", len(c.shortcuts))

	entries := make([]shortcutEntry, 0, len(c.shortcuts))
	for _, sc := range c.shortcuts {
		entries = append(entries, shortcutEntry{
			ID: sc.ID,
			Options: map[string]dbus.Variant{
				"description": dbus.MakeVariant(sc.Description),
			},
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	options := map[string]dbus.Variant{"handle_token": dbus.MakeVariant(newToken())}
	call := c.bus.Object(Dest, Path).Call(
		Interface+".BindShortcuts", 0,
		c.session, entries, c.parentWindow(), options,
	)
	if call.Err != nil {
		c.notify.Error("Failed to bind shortcuts", call.Err.Error())
		log.Errorf("failed to bind shortcuts: %v", call.Err)
		return
	}
	log.Bound(len(entries))
}

func (c *Client) configureShortcuts() {
	if c.session == "" {
		log.Info("ignoring configure request, no session")
		return
	}

	options := map[string]dbus.Variant{"handle_token": dbus.MakeVariant(newToken())}
	call := c.bus.Object(Dest, Path).Call(
		Interface+".ConfigureShortcuts", 0,
		c.session, c.parentWindow(), options,
	)
	if call.Err != nil {
		c.notify.Error("Failed to configure shortcuts", call.Err.Error())
		log.Errorf("failed to configure shortcuts: %v", call.Err)
	}
}

// parentWindow exports the host window identifier; empty when no window is
// available, which the portal accepts as an unparented prompt.
func (c *Client) parentWindow() string {
	if c.exportWindow == nil {
		return ""
	}
	return c.exportWindow()
}

func responseMatch(request dbus.ObjectPath) []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(request),
		dbus.WithMatchInterface(RequestInterface),
		dbus.WithMatchMember("Response"),
	}
}

func activationMatch(member string) []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(member),
	}
}
