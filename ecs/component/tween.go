package component

import "time"

type Easing int

const (
	EaseLinear Easing = iota
	EaseInOutQuad
	EaseOutCubic
)

// Tween animates one scalar attribute of Target. It lives on its own
// entity and is destroyed when it completes, unless Repeat is set.
type Tween struct {
	Target   uint64
	Property string
	From     float64
	To       float64
	Duration time.Duration
	Easing   Easing
	Repeat   bool

	Elapsed time.Duration
	// FromCurrent starts the tween at the target's current value.
	FromCurrent bool
	started     bool
}

func (t *Tween) Started() bool { return t.started }

func (t *Tween) Start(from float64) {
	if t.FromCurrent {
		t.From = from
	}
	t.started = true
}

var TweenComponent = NewComponent[Tween]()
