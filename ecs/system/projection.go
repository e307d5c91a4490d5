package system

import "math"

const deg = math.Pi / 180

// Project maps a surface point to unit-disc coordinates for an
// orthographic view of the globe rotated by pitch and yaw degrees. Screen
// y grows downward. front is false when the point faces away.
func Project(lat, lon, pitch, yaw float64) (x, y float64, front bool) {
	phi := lat * deg
	lambda := (lon + yaw) * deg
	p := pitch * deg

	x1 := math.Cos(phi) * math.Sin(lambda)
	y1 := math.Sin(phi)
	z1 := math.Cos(phi) * math.Cos(lambda)

	y2 := y1*math.Cos(p) - z1*math.Sin(p)
	z2 := y1*math.Sin(p) + z1*math.Cos(p)

	return x1, -y2, z2 >= 0
}

// Viewport places the unit disc on screen.
type Viewport struct {
	CX, CY float64
	Radius float64
}

func NewViewport(width, height int, radius float64) Viewport {
	short := math.Min(float64(width), float64(height))
	if radius <= 0 {
		radius = 0.38
	}
	return Viewport{
		CX:     float64(width) / 2,
		CY:     float64(height) / 2,
		Radius: short * radius,
	}
}

func (v Viewport) ToScreen(x, y float64) (float64, float64) {
	return v.CX + x*v.Radius, v.CY + y*v.Radius
}

// Inside reports whether a screen point lies on the disc.
func (v Viewport) Inside(sx, sy float64) bool {
	dx, dy := sx-v.CX, sy-v.CY
	return dx*dx+dy*dy <= v.Radius*v.Radius
}
