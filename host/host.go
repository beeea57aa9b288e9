// Package host defines the capability surface the bridge needs from the
// application whose hotkeys it exports. The bridge never reaches into the
// application directly; everything goes through an injected Host.
package host

// RegistererKind identifies the kind of object that registered a hotkey.
type RegistererKind int

const (
	RegistererSource RegistererKind = iota
	RegistererOutput
	RegistererEncoder
	RegistererService
)

// Registerer is the object that registered a hotkey. Hotkey records can
// outlive their registerer, so ID must stay readable after the object is
// destroyed while Name may not be: for source-kind registerers, callers
// must check the object against a liveness snapshot before calling Name.
type Registerer interface {
	Kind() RegistererKind
	ID() string
	Name() string
}

// HotkeyInfo describes one registered hotkey binding.
type HotkeyInfo struct {
	ID          uint64
	Name        string
	Description string
	Registerer  Registerer // nil when the hotkey has no owner
}

// SceneList is a snapshot of the host's scene names. Release must be called
// once iteration is done, whether or not it succeeded.
type SceneList interface {
	Names() []string
	Release()
}

// Scene is a resolved scene handle. Release after use, regardless of
// outcome.
type Scene interface {
	Name() string
	Release()
}

// Event is a host lifecycle notification.
type Event int

const (
	FinishedLoading Event = iota
	SceneListChanged
	SceneCollectionChanged
	ProfileChanged
)

func (e Event) String() string {
	switch e {
	case FinishedLoading:
		return "finished_loading"
	case SceneListChanged:
		return "scene_list_changed"
	case SceneCollectionChanged:
		return "scene_collection_changed"
	case ProfileChanged:
		return "profile_changed"
	}
	return "unknown"
}

// Host is the injected application capability. It is not safe for
// concurrent use: every method must be called from the bridge's owning
// goroutine. Events is the exception; its channel may be fed from anywhere.
type Host interface {
	// LiveSourceIDs returns the stable IDs of every currently live source
	// and filter. Taken as a snapshot at the start of a rebuild pass so
	// hotkey enumeration never dereferences a destroyed source.
	LiveSourceIDs() []string

	// VisitHotkeys calls visit for every registered hotkey binding until
	// visit returns false.
	VisitHotkeys(visit func(HotkeyInfo) bool)

	// TriggerHotkey routes a press or release to the hotkey's own handler.
	TriggerHotkey(id uint64, pressed bool)

	Scenes() SceneList
	SceneByName(name string) (Scene, bool)
	SetCurrentScene(Scene)

	RecordingActive() bool
	StartRecording()
	StopRecording()

	StreamingActive() bool
	StartStreaming()
	StopStreaming()

	ReplayBufferActive() bool
	StartReplayBuffer()
	StopReplayBuffer()

	VirtualCamActive() bool
	StartVirtualCam()
	StopVirtualCam()

	StudioModeActive() bool
	SetStudioMode(enabled bool)

	// Events delivers lifecycle notifications. The channel stays open for
	// the host's lifetime.
	Events() <-chan Event
}
