package component

// Pointer is the per-frame state of the primary pointer: the mouse or the
// first touch.
type Pointer struct {
	X, Y     float64
	Pressed  bool
	Held     bool
	Released bool
	Moved    bool
	Touch    bool
	// OverUI is set when the pointer is over a control, which never starts
	// a drag.
	OverUI bool
}

// Action is a discrete command mapped from a key.
type Action int

const (
	ActionNone Action = iota
	ActionPrevYear
	ActionNextYear
	ActionSelectYear
	ActionToggleAutoPlay
	ActionToggleMute
	ActionToggleSubtitles
	ActionToggleContrast
	ActionReset
	ActionClosePopup
)

type Command struct {
	Action Action
	// Index is the year slot for ActionSelectYear.
	Index int
}

// Input is filled by the input system each frame and consumed by the
// controller.
type Input struct {
	Pointer  Pointer
	Commands []Command
	// Gesture is set on any press or key, used to unlock audio.
	Gesture bool
}

var InputComponent = NewComponent[Input]()
