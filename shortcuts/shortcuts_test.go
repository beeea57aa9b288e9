package shortcuts

import (
	"testing"

	"waykeys/host"
)

func TestHotkeyID(t *testing.T) {
	if got := HotkeyID(5); got != "hk_5" {
		t.Errorf("HotkeyID(5) = %q, want hk_5", got)
	}
	if !ValidID(HotkeyID(0)) || !ValidID(HotkeyID(18446744073709551615)) {
		t.Error("hotkey IDs must be valid portal identifiers")
	}
}

func TestSceneIDLegalAndDeterministic(t *testing.T) {
	names := []string{
		"Gaming",
		"Talk Show",
		"Scène d'intro",
		"50% off!!",
		"日本語シーン",
		"a/b\\c:d",
	}
	seen := make(map[string]string)
	for _, name := range names {
		id := SceneID(name)
		if !ValidID(id) {
			t.Errorf("SceneID(%q) = %q is not portal-legal", name, id)
		}
		if id != SceneID(name) {
			t.Errorf("SceneID(%q) is not deterministic", name)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("SceneID collision: %q and %q both map to %q", prev, name, id)
		}
		seen[id] = name
	}
}

func TestValidID(t *testing.T) {
	valid := []string{"hk_5", "_toggle_recording", "scene_abc123", "A"}
	invalid := []string{"", "5hk", "has space", "dash-ed", "naïve"}
	for _, id := range valid {
		if !ValidID(id) {
			t.Errorf("ValidID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true, want false", id)
		}
	}
}

// scenarioHost returns a host with two scenes and two hotkeys, one of them
// owned by a source that no longer exists.
func scenarioHost() *host.Fake {
	f := host.NewFake()
	f.SetScenes("Gaming", "Talk Show")
	f.SetLiveSources("src-mic")
	f.SetHotkeys(
		host.HotkeyInfo{
			ID:          5,
			Name:        "mute",
			Description: "Mute",
			Registerer:  &host.FakeRegisterer{RegKind: host.RegistererSource, RegID: "src-mic", RegName: "Mic"},
		},
		host.HotkeyInfo{
			ID:          9,
			Name:        "push_to_talk",
			Description: "Push to Talk",
			Registerer:  &host.FakeRegisterer{RegKind: host.RegistererSource, RegID: "src-gone", RegName: "Gone", Stale: true},
		},
	)
	return f
}

func TestRebuildScenario(t *testing.T) {
	f := scenarioHost()
	set := Rebuild(f)

	if len(set) != 9 {
		t.Fatalf("set has %d entries, want 9 (2 hotkeys + 5 toggles + 2 scenes)", len(set))
	}

	for _, id := range []string{
		"hk_5", "hk_9",
		"_toggle_recording", "_toggle_streaming", "_toggle_replay_buffer",
		"_toggle_virtualcam", "_toggle_studio_mode",
		SceneID("Gaming"), SceneID("Talk Show"),
	} {
		if _, ok := set[id]; !ok {
			t.Errorf("missing shortcut %q", id)
		}
	}

	for id := range set {
		if !ValidID(id) {
			t.Errorf("identifier %q is not portal-legal", id)
		}
	}

	if got := set["hk_5"].Description; got != "[Mic] Mute" {
		t.Errorf("hk_5 description = %q, want [Mic] Mute", got)
	}
	// Stale owner: shortcut still created, just without the bracket prefix.
	if got := set["hk_9"].Description; got != "Push to Talk" {
		t.Errorf("hk_9 description = %q, want Push to Talk", got)
	}
	if got := set[SceneID("Talk Show")].Description; got != "Switch to scene 'Talk Show'" {
		t.Errorf("scene description = %q", got)
	}
}

func TestRebuildIdempotent(t *testing.T) {
	f := scenarioHost()
	first := Rebuild(f)
	second := Rebuild(f)

	if len(first) != len(second) {
		t.Fatalf("rebuild changed count: %d then %d", len(first), len(second))
	}
	for id, sc := range first {
		other, ok := second[id]
		if !ok {
			t.Errorf("second rebuild missing %q", id)
			continue
		}
		if other.Description != sc.Description {
			t.Errorf("%q description changed: %q then %q", id, sc.Description, other.Description)
		}
	}
}

func TestRebuildNonSourceOwnersResolvedDirectly(t *testing.T) {
	f := host.NewFake()
	// An output registerer absent from the live-source snapshot must still
	// resolve; the snapshot check applies to sources only.
	f.SetHotkeys(host.HotkeyInfo{
		ID:          3,
		Description: "Start Output",
		Registerer:  &host.FakeRegisterer{RegKind: host.RegistererOutput, RegID: "out-1", RegName: "Main Output"},
	})
	set := Rebuild(f)
	if got := set["hk_3"].Description; got != "[Main Output] Start Output" {
		t.Errorf("hk_3 description = %q, want [Main Output] Start Output", got)
	}
}

func TestRebuildPlaceholderDescription(t *testing.T) {
	f := host.NewFake()
	f.SetHotkeys(host.HotkeyInfo{ID: 7})
	set := Rebuild(f)
	if got := set["hk_7"].Description; got != "Unknown Hotkey" {
		t.Errorf("hk_7 description = %q, want Unknown Hotkey", got)
	}
}

func TestRebuildFallsBackToName(t *testing.T) {
	f := host.NewFake()
	f.SetHotkeys(host.HotkeyInfo{ID: 2, Name: "libobs.mute"})
	set := Rebuild(f)
	if got := set["hk_2"].Description; got != "libobs.mute" {
		t.Errorf("hk_2 description = %q, want libobs.mute", got)
	}
}

func TestRebuildSkipsEmptySceneName(t *testing.T) {
	f := host.NewFake()
	f.SetScenes("", "Gaming")
	set := Rebuild(f)
	if len(set) != 6 {
		t.Errorf("set has %d entries, want 6 (5 toggles + 1 scene)", len(set))
	}
	if f.ListReleases() != 1 {
		t.Errorf("scene list released %d times, want 1", f.ListReleases())
	}
}

func TestHotkeyCallbackRoutesTrigger(t *testing.T) {
	f := scenarioHost()
	set := Rebuild(f)

	set["hk_5"].Callback(true)
	set["hk_5"].Callback(false)

	got := f.Triggers()
	if len(got) != 2 {
		t.Fatalf("recorded %d triggers, want 2", len(got))
	}
	if got[0] != (host.Trigger{ID: 5, Pressed: true}) || got[1] != (host.Trigger{ID: 5, Pressed: false}) {
		t.Errorf("triggers = %v", got)
	}
}

func TestTogglePressInvertsState(t *testing.T) {
	cases := []struct {
		id       string
		op, undo string
	}{
		{"_toggle_recording", "start_recording", "stop_recording"},
		{"_toggle_streaming", "start_streaming", "stop_streaming"},
		{"_toggle_replay_buffer", "start_replay_buffer", "stop_replay_buffer"},
		{"_toggle_virtualcam", "start_virtualcam", "stop_virtualcam"},
		{"_toggle_studio_mode", "studio_mode_on", "studio_mode_off"},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			f := host.NewFake()
			set := Rebuild(f)

			set[tc.id].Callback(true) // inactive -> start
			set[tc.id].Callback(true) // active -> stop

			got := f.Ops()
			if len(got) != 2 || got[0] != tc.op || got[1] != tc.undo {
				t.Errorf("ops = %v, want [%s %s]", got, tc.op, tc.undo)
			}
		})
	}
}

func TestToggleReleaseIsNoop(t *testing.T) {
	f := host.NewFake()
	f.SetStates(true, false, true, false, true)
	set := Rebuild(f)

	for _, id := range []string{
		"_toggle_recording", "_toggle_streaming", "_toggle_replay_buffer",
		"_toggle_virtualcam", "_toggle_studio_mode",
	} {
		set[id].Callback(false)
	}

	if got := f.Ops(); len(got) != 0 {
		t.Errorf("release changed host state: %v", got)
	}
}

func TestSceneCallback(t *testing.T) {
	f := host.NewFake()
	f.SetScenes("Gaming", "Talk Show")
	set := Rebuild(f)

	sc := set[SceneID("Talk Show")]

	sc.Callback(false)
	if len(f.Switched()) != 0 {
		t.Error("release must not switch scenes")
	}

	sc.Callback(true)
	if got := f.Switched(); len(got) != 1 || got[0] != "Talk Show" {
		t.Errorf("switched = %v, want [Talk Show]", got)
	}
	if f.SceneReleases() != 1 {
		t.Errorf("scene handle released %d times, want 1", f.SceneReleases())
	}

	// Scene removed between rebuild and activation: quiet no-op.
	f.SetScenes("Gaming")
	sc.Callback(true)
	if got := f.Switched(); len(got) != 1 {
		t.Errorf("switch on vanished scene: %v", got)
	}
}
