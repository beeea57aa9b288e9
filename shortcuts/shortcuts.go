// Package shortcuts builds the set of portal-addressable shortcuts from the
// host's current hotkeys, a fixed list of toggle actions, and the scene
// list.
package shortcuts

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"waykeys/host"
	"waykeys/log"
)

// Shortcut is one portal-bindable action. ID must be a valid portal
// shortcut identifier; Callback receives the pressed/released flag.
type Shortcut struct {
	ID          string
	Description string
	Callback    func(pressed bool)
}

// Set maps shortcut ID to Shortcut. A Set is replaced wholesale on every
// rebuild, never patched, so entries can capture enumeration-time values
// without outliving them.
type Set map[string]Shortcut

const (
	hotkeyPrefix = "hk_"
	scenePrefix  = "scene_"
)

// HotkeyID derives the portal identifier for a host hotkey. The numeric ID
// is used instead of the name because names collide (scenes share hotkey
// names) and may contain characters the portal rejects.
func HotkeyID(id uint64) string {
	return hotkeyPrefix + strconv.FormatUint(id, 10)
}

// SceneID derives the portal identifier for a scene. The name is hashed so
// the identifier stays valid for names with spaces, punctuation or
// non-ASCII characters, and stable for as long as the scene keeps its name.
func SceneID(name string) string {
	sum := md5.Sum([]byte(name))
	return scenePrefix + hex.EncodeToString(sum[:])
}

// ValidID reports whether id is legal as a portal shortcut identifier:
// ASCII letters, digits and underscores, not starting with a digit.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i, r := range id {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Rebuild clears nothing in place; it returns a fresh Set built from the
// host's hotkeys, the fixed toggle actions and the scene list. The caller
// swaps the whole Set so stale entries never survive a rebuild.
func Rebuild(h host.Host) Set {
	log.Info("re-creating shortcuts list")
	set := make(Set)

	// Snapshot of live source and filter identities. Hotkey records can
	// outlive the source that registered them within a single enumeration
	// pass, so owner resolution must go through this snapshot.
	live := make(map[string]struct{})
	for _, id := range h.LiveSourceIDs() {
		live[id] = struct{}{}
	}

	h.VisitHotkeys(func(hk host.HotkeyInfo) bool {
		set.add(hotkeyShortcut(h, hk, live))
		return true
	})

	addToggles(set, h)
	addScenes(set, h)
	return set
}

func hotkeyShortcut(h host.Host, hk host.HotkeyInfo, live map[string]struct{}) Shortcut {
	description := hk.Description
	if description == "" {
		description = hk.Name
	}
	if description == "" {
		description = "Unknown Hotkey"
	}

	if owner := ownerName(hk, live); owner != "" {
		description = "[" + owner + "] " + description
	}

	id := hk.ID
	return Shortcut{
		ID:          HotkeyID(id),
		Description: description,
		Callback: func(pressed bool) {
			h.TriggerHotkey(id, pressed)
		},
	}
}

// ownerName resolves the display name of a hotkey's registerer. Source-kind
// registerers are only resolved through the liveness snapshot; outputs,
// encoders and services are trusted directly.
func ownerName(hk host.HotkeyInfo, live map[string]struct{}) string {
	reg := hk.Registerer
	if reg == nil {
		return ""
	}
	if reg.Kind() == host.RegistererSource {
		if _, ok := live[reg.ID()]; !ok {
			log.Warnf("skipping invalid source registerer for hotkey %d", hk.ID)
			return ""
		}
	}
	return reg.Name()
}

// The portal binds one key combination per shortcut, unlike the host's
// native hotkey system which allows separate binds for start and stop of
// the same action. These toggles collapse each start/stop pair into a
// single shortcut.
func addToggles(set Set, h host.Host) {
	toggles := []struct {
		id, description string
		active          func() bool
		start, stop     func()
	}{
		{"_toggle_recording", "Toggle Recording", h.RecordingActive, h.StartRecording, h.StopRecording},
		{"_toggle_streaming", "Toggle Streaming", h.StreamingActive, h.StartStreaming, h.StopStreaming},
		{"_toggle_replay_buffer", "Toggle Replay Buffer", h.ReplayBufferActive, h.StartReplayBuffer, h.StopReplayBuffer},
		{"_toggle_virtualcam", "Toggle Virtual Camera", h.VirtualCamActive, h.StartVirtualCam, h.StopVirtualCam},
		{"_toggle_studio_mode", "Toggle Studio Mode", h.StudioModeActive,
			func() { h.SetStudioMode(true) },
			func() { h.SetStudioMode(false) }},
	}

	for _, t := range toggles {
		t := t
		set.add(Shortcut{
			ID:          t.id,
			Description: t.description,
			Callback: func(pressed bool) {
				// Only fire on press, not on release.
				if !pressed {
					return
				}
				if t.active() {
					t.stop()
				} else {
					t.start()
				}
			},
		})
	}
}

func addScenes(set Set, h host.Host) {
	scenes := h.Scenes()
	defer scenes.Release()

	names := scenes.Names()
	log.Infof("found %d scenes", len(names))

	for _, name := range names {
		if name == "" {
			continue
		}
		name := name
		set.add(Shortcut{
			ID:          SceneID(name),
			Description: "Switch to scene '" + name + "'",
			Callback: func(pressed bool) {
				if !pressed {
					return
				}
				// Resolve at invocation time; the scene may have been
				// destroyed or renamed since the rebuild.
				scene, ok := h.SceneByName(name)
				if !ok {
					return
				}
				defer scene.Release()
				h.SetCurrentScene(scene)
			},
		})
	}
}

func (s Set) add(sc Shortcut) {
	s[sc.ID] = sc
}
