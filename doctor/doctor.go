// Package doctor probes the desktop's GlobalShortcuts portal and reports
// whether the bridge can work in this session.
package doctor

import (
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"waykeys/portal"
)

// Run executes portal diagnostics and returns an exit code (0=all pass,
// 1=any fail).
func Run() int {
	fmt.Println("waykeys doctor - portal diagnostics")
	fmt.Println("===================================")

	allPass := true

	conn := checkBus()
	if conn == nil {
		allPass = false
	} else {
		defer conn.Close()
	}

	if allPass && !checkVersion(conn) {
		allPass = false
	}
	if allPass && !checkSession(conn) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkBus() *dbus.Conn {
	fmt.Println()
	fmt.Println("[1/3] Session bus")

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to session bus: %v\n", err)
		return nil
	}
	fmt.Println("  PASS: connected")
	return conn
}

func checkVersion(conn *dbus.Conn) bool {
	fmt.Println()
	fmt.Println("[2/3] GlobalShortcuts portal")

	version, err := portal.Version(conn)
	if err != nil {
		fmt.Printf("  FAIL: portal not available: %v\n", err)
		fmt.Println("        (is xdg-desktop-portal running, with a backend that implements GlobalShortcuts?)")
		return false
	}
	fmt.Printf("  PASS: interface version %d\n", version)
	return true
}

func checkSession(conn *dbus.Conn) bool {
	fmt.Println()
	fmt.Println("[3/3] Trial session")

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	options := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(doctorToken()),
		"session_handle_token": dbus.MakeVariant(doctorToken()),
	}
	obj := conn.Object(portal.Dest, portal.Path)
	call := obj.Call(portal.Interface+".CreateSession", 0, options)
	if call.Err != nil {
		fmt.Printf("  FAIL: CreateSession: %v\n", call.Err)
		return false
	}

	var request dbus.ObjectPath
	if err := call.Store(&request); err != nil {
		fmt.Printf("  FAIL: unexpected CreateSession reply: %v\n", err)
		return false
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(request),
		dbus.WithMatchInterface(portal.RequestInterface),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		fmt.Printf("  FAIL: subscribing to session response: %v\n", err)
		return false
	}
	defer conn.RemoveMatchSignal(match...)

	timeout := time.After(10 * time.Second)
	for {
		select {
		case sig := <-signals:
			if sig.Path != request || sig.Name != portal.RequestInterface+".Response" {
				continue
			}
			handle := responseSessionHandle(sig)
			if handle == "" {
				fmt.Println("  FAIL: response did not contain session_handle")
				return false
			}
			// Clean up the trial session so it doesn't linger.
			conn.Object(portal.Dest, dbus.ObjectPath(handle)).Call(portal.SessionInterface+".Close", 0)
			fmt.Printf("  PASS: session negotiated (%s)\n", handle)
			return true
		case <-timeout:
			fmt.Println("  FAIL: timeout waiting for session response")
			return false
		}
	}
}

func responseSessionHandle(sig *dbus.Signal) string {
	if len(sig.Body) < 2 {
		return ""
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return ""
	}
	handle, _ := results["session_handle"].Value().(string)
	return handle
}

func doctorToken() string {
	return "waykeys_doctor_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
