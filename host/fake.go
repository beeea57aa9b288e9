package host

import "sync"

// FakeRegisterer is a scriptable Registerer. Setting Stale simulates a
// destroyed object: reading its name panics, the way dereferencing a freed
// source would crash the real host.
type FakeRegisterer struct {
	RegKind RegistererKind
	RegID   string
	RegName string
	Stale   bool
}

func (r *FakeRegisterer) Kind() RegistererKind { return r.RegKind }
func (r *FakeRegisterer) ID() string           { return r.RegID }

func (r *FakeRegisterer) Name() string {
	if r.Stale {
		panic("host: name read on destroyed object " + r.RegID)
	}
	return r.RegName
}

// Trigger records one TriggerHotkey call.
type Trigger struct {
	ID      uint64
	Pressed bool
}

// Fake is an in-memory Host for tests and demo mode.
type Fake struct {
	mu sync.Mutex

	sourceIDs []string
	hotkeys   []HotkeyInfo
	scenes    []string

	recording  bool
	streaming  bool
	replay     bool
	virtualCam bool
	studioMode bool

	triggers      []Trigger
	ops           []string
	switched      []string
	sceneReleases int
	listReleases  int

	events chan Event
}

func NewFake() *Fake {
	return &Fake{events: make(chan Event, 8)}
}

func (f *Fake) SetLiveSources(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceIDs = append([]string(nil), ids...)
}

func (f *Fake) SetHotkeys(hks ...HotkeyInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotkeys = append([]HotkeyInfo(nil), hks...)
}

func (f *Fake) SetScenes(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes = append([]string(nil), names...)
}

func (f *Fake) SetStates(recording, streaming, replay, virtualCam, studioMode bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recording = recording
	f.streaming = streaming
	f.replay = replay
	f.virtualCam = virtualCam
	f.studioMode = studioMode
}

// SimEvent delivers a lifecycle event as the host would.
func (f *Fake) SimEvent(e Event) { f.events <- e }

// Triggers returns the recorded TriggerHotkey calls.
func (f *Fake) Triggers() []Trigger {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Trigger(nil), f.triggers...)
}

// Ops returns the recorded start/stop/set operations in order.
func (f *Fake) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

// Switched returns the names of scenes switched to, in order.
func (f *Fake) Switched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.switched...)
}

// SceneReleases counts released scene handles.
func (f *Fake) SceneReleases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sceneReleases
}

// ListReleases counts released scene-list snapshots.
func (f *Fake) ListReleases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listReleases
}

func (f *Fake) LiveSourceIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sourceIDs...)
}

func (f *Fake) VisitHotkeys(visit func(HotkeyInfo) bool) {
	f.mu.Lock()
	hks := append([]HotkeyInfo(nil), f.hotkeys...)
	f.mu.Unlock()
	for _, hk := range hks {
		if !visit(hk) {
			return
		}
	}
}

func (f *Fake) TriggerHotkey(id uint64, pressed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, Trigger{ID: id, Pressed: pressed})
}

type fakeSceneList struct {
	f     *Fake
	names []string
}

func (l *fakeSceneList) Names() []string { return l.names }

func (l *fakeSceneList) Release() {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()
	l.f.listReleases++
}

func (f *Fake) Scenes() SceneList {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &fakeSceneList{f: f, names: append([]string(nil), f.scenes...)}
}

type fakeScene struct {
	f    *Fake
	name string
}

func (s *fakeScene) Name() string { return s.name }

func (s *fakeScene) Release() {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.sceneReleases++
}

func (f *Fake) SceneByName(name string) (Scene, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.scenes {
		if n == name {
			return &fakeScene{f: f, name: name}, true
		}
	}
	return nil, false
}

func (f *Fake) SetCurrentScene(s Scene) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched = append(f.switched, s.Name())
}

func (f *Fake) RecordingActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording
}

func (f *Fake) StartRecording() { f.op("start_recording", &f.recording, true) }
func (f *Fake) StopRecording()  { f.op("stop_recording", &f.recording, false) }

func (f *Fake) StreamingActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streaming
}

func (f *Fake) StartStreaming() { f.op("start_streaming", &f.streaming, true) }
func (f *Fake) StopStreaming()  { f.op("stop_streaming", &f.streaming, false) }

func (f *Fake) ReplayBufferActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replay
}

func (f *Fake) StartReplayBuffer() { f.op("start_replay_buffer", &f.replay, true) }
func (f *Fake) StopReplayBuffer()  { f.op("stop_replay_buffer", &f.replay, false) }

func (f *Fake) VirtualCamActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.virtualCam
}

func (f *Fake) StartVirtualCam() { f.op("start_virtualcam", &f.virtualCam, true) }
func (f *Fake) StopVirtualCam()  { f.op("stop_virtualcam", &f.virtualCam, false) }

func (f *Fake) StudioModeActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.studioMode
}

func (f *Fake) SetStudioMode(enabled bool) {
	if enabled {
		f.op("studio_mode_on", &f.studioMode, true)
	} else {
		f.op("studio_mode_off", &f.studioMode, false)
	}
}

func (f *Fake) Events() <-chan Event { return f.events }

func (f *Fake) op(name string, state *bool, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, name)
	*state = value
}
