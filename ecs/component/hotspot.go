package component

// Hotspot is a clickable marker on the globe surface.
type Hotspot struct {
	ID    string
	Label string
	Info  string
	Lat   float64
	Lon   float64
	Years []int

	// Screen position from the last draw, and whether it faced the viewer.
	ScreenX float64
	ScreenY float64
	Front   bool
}

// VisibleIn reports whether the hotspot belongs to year. No years means all.
func (h *Hotspot) VisibleIn(year int) bool {
	if len(h.Years) == 0 {
		return true
	}
	for _, y := range h.Years {
		if y == year {
			return true
		}
	}
	return false
}

var HotspotComponent = NewComponent[Hotspot]()
