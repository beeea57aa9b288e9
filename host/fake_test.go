package host

import (
	"testing"
	"time"
)

func TestFakeSceneResolution(t *testing.T) {
	f := NewFake()
	f.SetScenes("Gaming", "Talk Show")

	s, ok := f.SceneByName("Talk Show")
	if !ok {
		t.Fatal("expected scene to resolve")
	}
	f.SetCurrentScene(s)
	s.Release()

	if got := f.Switched(); len(got) != 1 || got[0] != "Talk Show" {
		t.Errorf("switched = %v, want [Talk Show]", got)
	}
	if f.SceneReleases() != 1 {
		t.Errorf("scene releases = %d, want 1", f.SceneReleases())
	}

	if _, ok := f.SceneByName("Missing"); ok {
		t.Error("unknown scene should not resolve")
	}
}

func TestFakeToggleOps(t *testing.T) {
	f := NewFake()
	if f.RecordingActive() {
		t.Fatal("recording should start inactive")
	}
	f.StartRecording()
	if !f.RecordingActive() {
		t.Error("recording should be active after start")
	}
	f.StopRecording()
	if f.RecordingActive() {
		t.Error("recording should be inactive after stop")
	}
	want := []string{"start_recording", "stop_recording"}
	got := f.Ops()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestFakeEvents(t *testing.T) {
	f := NewFake()
	f.SimEvent(FinishedLoading)
	select {
	case e := <-f.Events():
		if e != FinishedLoading {
			t.Errorf("event = %v, want finished_loading", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestStaleRegistererPanicsOnName(t *testing.T) {
	r := &FakeRegisterer{RegKind: RegistererSource, RegID: "src-1", RegName: "Mic", Stale: true}
	defer func() {
		if recover() == nil {
			t.Error("expected panic reading name of stale registerer")
		}
	}()
	_ = r.Name()
}
