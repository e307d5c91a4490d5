package rotation

import (
	"testing"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objects struct {
	applied []State
	copies  []*State
}

// ApplyRotation copies the orientation onto every held object, the way the
// stage does for the active globe and its hotspots.
func (o *objects) ApplyRotation(pitch, yaw float64) {
	o.applied = append(o.applied, State{Pitch: pitch, Yaw: yaw})
	for _, c := range o.copies {
		*c = State{Pitch: pitch, Yaw: yaw}
	}
}

func newEngine(t *testing.T, cfg Config) (*Engine, *objects, *clock.Clock) {
	t.Helper()
	c := clock.New()
	objs := &objects{copies: []*State{{}, {}, {}}}
	return New(c, zerolog.Nop(), objs, cfg), objs, c
}

func drag(e *Engine, c *clock.Clock, fromX, fromY float64, steps int, dx, dy float64) {
	x, y := fromX, fromY
	e.PointerDown(x, y, "")
	for i := 0; i < steps; i++ {
		c.Advance(clock.FrameInterval)
		x += dx
		y += dy
		e.PointerMove(x, y)
	}
}

func TestPitchClampsAtLimit(t *testing.T) {
	e, objs, c := newEngine(t, Config{Sensitivity: 1})
	drag(e, c, 0, 0, 10, 0, 20)
	e.PointerUp()
	c.Advance(5 * time.Second)

	assert.Equal(t, 90.0, e.State().Pitch)
	for _, obj := range objs.copies {
		assert.Equal(t, 90.0, obj.Pitch)
	}

	drag(e, c, 0, 0, 10, 0, -40)
	e.PointerUp()
	c.Advance(5 * time.Second)
	assert.Equal(t, -90.0, e.State().Pitch)
}

func TestYawAccumulatesWithoutBound(t *testing.T) {
	e, _, c := newEngine(t, Config{Sensitivity: 1})
	for i := 0; i < 4; i++ {
		drag(e, c, 0, 0, 12, 30, 0)
		c.Advance(time.Second)
		e.PointerUp()
	}
	assert.Equal(t, 4*360.0, e.State().Yaw)
	assert.Equal(t, 0.0, e.State().Pitch)
}

func TestPitchClampDoesNotCorruptYaw(t *testing.T) {
	e, _, c := newEngine(t, Config{Sensitivity: 1})
	drag(e, c, 0, 0, 5, 10, 50)
	assert.Equal(t, 90.0, e.State().Pitch)
	assert.Equal(t, 50.0, e.State().Yaw)
}

func TestAllObjectsMoveInLockstep(t *testing.T) {
	e, objs, c := newEngine(t, Config{})
	drag(e, c, 100, 100, 3, 7, -3)
	require.NotEmpty(t, objs.applied)
	for _, obj := range objs.copies {
		assert.Equal(t, e.State(), *obj)
	}
}

func TestInertiaDecaysAndSettles(t *testing.T) {
	e, objs, c := newEngine(t, Config{Sensitivity: 1, Damping: 0.9, MinVelocity: 0.05})
	drag(e, c, 0, 0, 3, 10, 0)
	e.PointerUp()
	require.True(t, e.Coasting())

	var yaws []float64
	for i := 0; i < 300 && e.Coasting(); i++ {
		c.Advance(clock.FrameInterval)
		yaws = append(yaws, e.State().Yaw)
	}
	require.False(t, e.Coasting(), "inertia must terminate on its own")
	assert.Less(t, len(yaws), 300)
	for i := 1; i < len(yaws); i++ {
		assert.Greater(t, yaws[i], yaws[i-1])
	}

	settled := e.State()
	vp, vy := e.Velocity()
	assert.Zero(t, vp)
	assert.Zero(t, vy)
	applied := len(objs.applied)
	c.Advance(5 * time.Second)
	assert.Equal(t, settled, e.State())
	assert.Equal(t, applied, len(objs.applied))
	assert.Equal(t, 0, c.Pending())
}

func TestNewDragHaltsInertia(t *testing.T) {
	e, _, c := newEngine(t, Config{Sensitivity: 1})
	drag(e, c, 0, 0, 3, 20, 0)
	e.PointerUp()
	c.Advance(3 * clock.FrameInterval)
	require.True(t, e.Coasting())

	require.True(t, e.PointerDown(50, 50, ""))
	held := e.State()
	assert.False(t, e.Coasting())
	c.Advance(time.Second)
	assert.Equal(t, held, e.State())
}

func TestSlowReleaseDoesNotCoast(t *testing.T) {
	e, _, c := newEngine(t, Config{Sensitivity: 1})
	drag(e, c, 0, 0, 3, 20, 0)
	c.Advance(500 * time.Millisecond)
	e.PointerUp()
	assert.False(t, e.Coasting())
}

func TestExcludedTargetsDoNotDrag(t *testing.T) {
	e, objs, c := newEngine(t, Config{Exclude: []string{"year_button", "popup"}})
	assert.False(t, e.PointerDown(0, 0, "year_button"))
	c.Advance(clock.FrameInterval)
	e.PointerMove(100, 100)
	assert.Equal(t, State{}, e.State())
	assert.Empty(t, objs.applied)
	assert.True(t, e.PointerDown(0, 0, "globe"))
}

func TestResetStopsEverything(t *testing.T) {
	e, _, c := newEngine(t, Config{Sensitivity: 1})
	drag(e, c, 0, 0, 3, 20, 5)
	e.PointerUp()
	e.Reset()
	assert.False(t, e.Coasting())
	assert.Equal(t, State{}, e.State())
	assert.Equal(t, 0, c.Pending())
}
