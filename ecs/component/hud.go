package component

import "time"

// HUD is the singleton text and status state the HUD system draws.
type HUD struct {
	Year        int
	Title       string
	Description string

	Subtitle     string
	SubtitleLeft time.Duration

	Popup *Popup

	Progress float64
	AutoPlay bool
	Muted    bool

	SubtitlesOn  bool
	HighContrast bool

	// Notice is a persistent banner, used for unrecoverable errors.
	Notice string

	// Reticle is the gaze dwell fraction, 0 when idle.
	Reticle float64
}

type Popup struct {
	HotspotID string
	Label     string
	Info      string
	X         float64
	Y         float64
}

var HUDComponent = NewComponent[HUD]()
