package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/common"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	graticuleStep   = 30.0
	graticuleSample = 6.0
	markerRadius    = 6.0
	// hitSlop widens the clickable area around a marker.
	hitSlop = 6.0
)

// landCell is a coarse blob of land, centre and radius in degrees.
type landCell struct {
	lat, lon, r float64
}

var landCells = []landCell{
	// Americas
	{60, -110, 14}, {45, -100, 13}, {35, -90, 10}, {20, -100, 7}, {65, -45, 9},
	{-5, -60, 13}, {-20, -55, 10}, {-35, -65, 7},
	// Europe and Africa
	{50, 10, 9}, {60, 30, 10}, {10, 20, 15}, {-10, 25, 12}, {-25, 25, 8},
	// Asia and Oceania
	{60, 90, 18}, {45, 100, 14}, {30, 80, 10}, {25, 45, 8}, {15, 105, 7},
	{-25, 135, 11}, {-75, 0, 16}, {-75, 120, 16}, {-75, -120, 16},
}

// GlobeSystem projects rotatable objects and draws visible globes with
// their hotspot markers.
type GlobeSystem struct {
	viewport Viewport
	radius   float64
	time     float64
}

func NewGlobeSystem(radius float64) *GlobeSystem {
	return &GlobeSystem{radius: radius, viewport: NewViewport(1280, 720, radius)}
}

func (g *GlobeSystem) SetViewport(width, height int) {
	g.viewport = NewViewport(width, height, g.radius)
}

func (g *GlobeSystem) Viewport() Viewport { return g.viewport }

func (g *GlobeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	g.time += clock.FrameInterval.Seconds()

	ecs.ForEach2(w, component.HotspotComponent.Kind(), component.OrientationComponent.Kind(), func(e ecs.Entity, h *component.Hotspot, o *component.Orientation) {
		x, y, front := Project(h.Lat, h.Lon, o.Pitch, o.Yaw)
		h.ScreenX, h.ScreenY = g.viewport.ToScreen(x, y)
		h.Front = front
	})

	ecs.ForEach(w, component.PulseComponent.Kind(), func(e ecs.Entity, p *component.Pulse) {
		p.Phase += clock.FrameInterval
		if p.Period > 0 && p.Phase >= p.Period {
			p.Phase -= p.Period
		}
	})
}

// HotspotAt returns the front-facing visible hotspot under a screen point.
func (g *GlobeSystem) HotspotAt(w *ecs.World, sx, sy float64) (*component.Hotspot, bool) {
	var best *component.Hotspot
	bestDist := math.MaxFloat64
	ecs.ForEach2(w, component.HotspotComponent.Kind(), component.VisibleComponent.Kind(), func(e ecs.Entity, h *component.Hotspot, v *component.Visible) {
		if !v.Visible || !h.Front {
			return
		}
		d := math.Hypot(h.ScreenX-sx, h.ScreenY-sy)
		if d <= markerRadius+hitSlop && d < bestDist {
			best, bestDist = h, d
		}
	})
	return best, best != nil
}

func (g *GlobeSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	highContrast := false
	if hud, ok := ecs.Singleton(w, component.HUDComponent.Kind()); ok {
		highContrast = hud.HighContrast
	}

	ecs.ForEach2(w, component.GlobeComponent.Kind(), component.VisibleComponent.Kind(), func(e ecs.Entity, globe *component.Globe, vis *component.Visible) {
		if !vis.Visible || vis.Opacity <= 0 {
			return
		}
		var o component.Orientation
		if orient, ok := ecs.Get(w, e, component.OrientationComponent.Kind()); ok {
			o = *orient
		}
		water := 0.0
		if attrs, ok := ecs.Get(w, e, component.AttributesComponent.Kind()); ok {
			water = attrs.Get(component.AttrWaterLevel)
		}
		g.drawGlobe(screen, globe, o, water, vis.Opacity, highContrast)
	})

	ecs.ForEach2(w, component.HotspotComponent.Kind(), component.VisibleComponent.Kind(), func(e ecs.Entity, h *component.Hotspot, vis *component.Visible) {
		if !vis.Visible || !h.Front {
			return
		}
		r := markerRadius
		if p, ok := ecs.Get(w, e, component.PulseComponent.Kind()); ok && p.Period > 0 {
			r += 2 * math.Sin(2*math.Pi*p.Phase.Seconds()/p.Period.Seconds())
		}
		fill := color.Color(colornames.Orange)
		if highContrast {
			fill = colornames.Yellow
		}
		vector.FillCircle(screen, float32(h.ScreenX), float32(h.ScreenY), float32(r), fill, true)
		vector.StrokeCircle(screen, float32(h.ScreenX), float32(h.ScreenY), float32(r+1), 1.5, colornames.White, true)
	})
}

func (g *GlobeSystem) drawGlobe(screen *ebiten.Image, globe *component.Globe, o component.Orientation, water, opacity float64, highContrast bool) {
	v := g.viewport
	ocean := fade(globe.OceanColor, opacity)
	land := fade(globe.LandColor, opacity)
	grid := fade(color.RGBA{255, 255, 255, 60}, opacity)
	if highContrast {
		ocean = fade(color.RGBA{0, 0, 80, 255}, opacity)
		land = fade(color.RGBA{255, 255, 255, 255}, opacity)
		grid = fade(color.RGBA{255, 255, 0, 160}, opacity)
	}

	vector.FillCircle(screen, float32(v.CX), float32(v.CY), float32(v.Radius), ocean, true)

	// Rising water eats into the coastline.
	shrink := 1 - common.Clamp01(water)*2
	if shrink < 0.2 {
		shrink = 0.2
	}
	for _, cell := range landCells {
		x, y, front := Project(cell.lat, cell.lon, o.Pitch, o.Yaw)
		if !front {
			continue
		}
		sx, sy := v.ToScreen(x, y)
		// Foreshorten towards the limb.
		depth := math.Sqrt(math.Max(0, 1-(x*x+y*y)))
		r := cell.r * deg * v.Radius * shrink * (0.35 + 0.65*depth)
		vector.FillCircle(screen, float32(sx), float32(sy), float32(r), land, true)
	}

	for lat := -90 + graticuleStep; lat < 90; lat += graticuleStep {
		g.polyline(screen, grid, func(t float64) (float64, float64) { return lat, t }, -180, 180, o)
	}
	for lon := -180.0; lon < 180; lon += graticuleStep {
		g.polyline(screen, grid, func(t float64) (float64, float64) { return t, lon }, -90, 90, o)
	}

	if water > 0 {
		ring := fade(color.RGBA{120, 200, 255, uint8(80 + 150*common.Clamp01(water))}, opacity)
		vector.StrokeCircle(screen, float32(v.CX), float32(v.CY), float32(v.Radius), float32(2+12*water), ring, true)
	}
}

// polyline samples a lat/lon curve and strokes its front-facing segments.
func (g *GlobeSystem) polyline(screen *ebiten.Image, clr color.Color, at func(t float64) (lat, lon float64), from, to float64, o component.Orientation) {
	var px, py float64
	prevFront := false
	for t := from; t <= to; t += graticuleSample {
		lat, lon := at(t)
		x, y, front := Project(lat, lon, o.Pitch, o.Yaw)
		sx, sy := g.viewport.ToScreen(x, y)
		if front && prevFront {
			vector.StrokeLine(screen, float32(px), float32(py), float32(sx), float32(sy), 1, clr, true)
		}
		px, py, prevFront = sx, sy, front
	}
}

func fade(c color.RGBA, opacity float64) color.RGBA {
	a := common.Clamp01(opacity)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
