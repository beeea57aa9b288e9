package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/godbus/dbus/v5"

	"waykeys/host"
	"waykeys/portal"
	"waykeys/window"
)

// runDemo drives the bridge with a scripted fake host, against either the
// real session bus or an in-memory one. Commands on stdin:
//
//	LOAD                      deliver the finished-loading event
//	SCENES a;b;c              replace the scene list (delivers scene-list-changed)
//	HOTKEY <id> <description> add a hotkey binding
//	EVENT scenes|collection|profile
//	PRESS <id> / RELEASE <id> activate a shortcut (fakebus only)
//	CONFIGURE                 open the desktop's shortcut editor
//	QUIT
func runDemo(useFakeBus bool) {
	h := host.NewFake()
	h.SetScenes("Gaming", "Talk Show")
	hotkeys := []host.HotkeyInfo{
		{ID: 5, Description: "Mute"},
		{ID: 9, Description: "Push to Talk"},
	}
	h.SetHotkeys(hotkeys...)

	var bus portal.Bus
	var fake *portal.FakeBus
	if useFakeBus {
		fake = portal.NewFakeBus()
		bus = fake
	} else {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to session bus: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		bus = conn
	}

	client := portal.New(bus, h, window.None, notify)
	defer client.Close()
	client.CreateSession()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		client.Close()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "LOAD":
			h.SimEvent(host.FinishedLoading)
		case "SCENES":
			if len(fields) > 1 {
				h.SetScenes(strings.Split(fields[1], ";")...)
			}
			h.SimEvent(host.SceneListChanged)
		case "HOTKEY":
			if len(fields) < 3 {
				fmt.Println("usage: HOTKEY <id> <description>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				fmt.Printf("bad hotkey id %q\n", fields[1])
				continue
			}
			hotkeys = append(hotkeys, host.HotkeyInfo{
				ID:          id,
				Description: strings.Join(fields[2:], " "),
			})
			h.SetHotkeys(hotkeys...)
			h.SimEvent(host.SceneCollectionChanged)
		case "EVENT":
			if len(fields) < 2 {
				fmt.Println("usage: EVENT scenes|collection|profile")
				continue
			}
			switch fields[1] {
			case "scenes":
				h.SimEvent(host.SceneListChanged)
			case "collection":
				h.SimEvent(host.SceneCollectionChanged)
			case "profile":
				h.SimEvent(host.ProfileChanged)
			default:
				fmt.Printf("unknown event %q\n", fields[1])
			}
		case "PRESS", "RELEASE":
			if fake == nil {
				fmt.Println("PRESS/RELEASE require -fakebus")
				continue
			}
			if len(fields) < 2 {
				fmt.Println("usage: PRESS|RELEASE <shortcut id>")
				continue
			}
			if fields[0] == "PRESS" {
				fake.Activate(fields[1])
			} else {
				fake.Deactivate(fields[1])
			}
		case "CONFIGURE":
			client.ConfigureShortcuts()
		case "QUIT":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}
