package component

import (
	"image/color"
	"time"
)

// Globe is the per-year rendition of the earth. Exactly one is visible at
// steady state.
type Globe struct {
	Year       int
	OceanColor color.RGBA
	LandColor  color.RGBA
	// Radius is a fraction of the shorter screen side.
	Radius float64
}

var GlobeComponent = NewComponent[Globe]()

// Visible toggles drawing. Opacity lets a globe be faded separately from
// the screen overlay.
type Visible struct {
	Visible bool
	Opacity float64
}

var VisibleComponent = NewComponent[Visible]()

// Orientation is the rotation copied onto every rotatable each tick.
type Orientation struct {
	Pitch float64
	Yaw   float64
}

var OrientationComponent = NewComponent[Orientation]()

// Attributes holds named animatable scalars such as water_level.
type Attributes struct {
	Values map[string]float64
}

func (a *Attributes) Get(name string) float64 {
	if a == nil || a.Values == nil {
		return 0
	}
	return a.Values[name]
}

func (a *Attributes) Set(name string, v float64) {
	if a.Values == nil {
		a.Values = make(map[string]float64)
	}
	a.Values[name] = v
}

var AttributesComponent = NewComponent[Attributes]()

// AttrWaterLevel is the sea level rise shown by a globe, 0 to 1.
const AttrWaterLevel = "water_level"

// Element names an entity so collaborators can look it up by id.
type Element struct {
	Name string
}

var ElementComponent = NewComponent[Element]()

// Tag marks entities that belong together.
type Tag struct {
	Rotatable bool
}

var TagComponent = NewComponent[Tag]()

// Pulse is a looping scale animation on hotspot markers.
type Pulse struct {
	Period time.Duration
	Phase  time.Duration
}

var PulseComponent = NewComponent[Pulse]()
