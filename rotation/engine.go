// Package rotation turns pointer drags into a shared globe orientation and
// keeps it coasting after release.
package rotation

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/timemachine/clock"
	"github.com/rs/zerolog"
)

const (
	DefaultSensitivity = 0.3
	DefaultDamping     = 0.95
	DefaultMinVelocity = 0.01
	DefaultPitchLimit  = 90.0

	// releaseWindow is how long a held pointer keeps its last velocity.
	releaseWindow = 100 * time.Millisecond
	minElapsed    = time.Millisecond
)

// Target receives the orientation. The stage copies it onto every visible
// rotatable object.
type Target interface {
	ApplyRotation(pitch, yaw float64)
}

// State is the shared orientation in degrees.
type State struct {
	Pitch float64
	Yaw   float64
}

type Config struct {
	// Sensitivity is degrees of rotation per pixel dragged.
	Sensitivity float64
	// VelocityScale converts degrees per millisecond into degrees per tick.
	VelocityScale float64
	// Damping multiplies velocity every inertia tick. Must be below 1.
	Damping float64
	// MinVelocity is the per-axis threshold, in degrees per tick, under
	// which inertia stops.
	MinVelocity float64
	PitchLimit  float64
	// Exclude lists pointer targets that never start a drag.
	Exclude []string
}

func (c Config) withDefaults() Config {
	if c.Sensitivity <= 0 {
		c.Sensitivity = DefaultSensitivity
	}
	if c.VelocityScale <= 0 {
		c.VelocityScale = float64(clock.FrameInterval) / float64(time.Millisecond)
	}
	if c.Damping <= 0 || c.Damping >= 1 {
		c.Damping = DefaultDamping
	}
	if c.MinVelocity <= 0 {
		c.MinVelocity = DefaultMinVelocity
	}
	if c.PitchLimit <= 0 || c.PitchLimit > DefaultPitchLimit {
		c.PitchLimit = DefaultPitchLimit
	}
	return c
}

// Engine owns the orientation and its velocity. Velocity.X is pitch per
// tick, Velocity.Y is yaw per tick.
type Engine struct {
	cfg     Config
	clock   *clock.Clock
	log     zerolog.Logger
	target  Target
	exclude map[string]struct{}

	state    State
	velocity cp.Vector

	dragging bool
	lastX    float64
	lastY    float64
	lastT    time.Duration
	inertia  *clock.Timer
	ticks    int
}

func New(c *clock.Clock, logger zerolog.Logger, target Target, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		exclude[name] = struct{}{}
	}
	return &Engine{cfg: cfg, clock: c, log: logger, target: target, exclude: exclude}
}

func (e *Engine) State() State { return e.state }

// Velocity returns the current velocity in degrees per tick.
func (e *Engine) Velocity() (pitch, yaw float64) { return e.velocity.X, e.velocity.Y }

func (e *Engine) Dragging() bool { return e.dragging }

// Coasting reports whether the inertia loop is running.
func (e *Engine) Coasting() bool { return e.inertia.Active() }

// InertiaTicks reports how many ticks the last inertia loop ran.
func (e *Engine) InertiaTicks() int { return e.ticks }

// PointerDown starts a drag unless target is excluded. Any coasting stops
// before the drag takes over.
func (e *Engine) PointerDown(x, y float64, target string) bool {
	if _, ok := e.exclude[target]; ok {
		return false
	}
	e.stopInertia()
	e.velocity = cp.Vector{}
	e.dragging = true
	e.lastX, e.lastY = x, y
	e.lastT = e.clock.Now()
	return true
}

// PointerMove rotates by the pixel delta since the last move and applies
// the result immediately.
func (e *Engine) PointerMove(x, y float64) {
	if !e.dragging {
		return
	}
	dx, dy := x-e.lastX, y-e.lastY
	now := e.clock.Now()
	elapsed := now - e.lastT
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	e.lastX, e.lastY, e.lastT = x, y, now
	if dx == 0 && dy == 0 {
		return
	}

	before := e.state
	e.rotate(dy*e.cfg.Sensitivity, dx*e.cfg.Sensitivity)
	delta := cp.Vector{X: e.state.Pitch - before.Pitch, Y: e.state.Yaw - before.Yaw}
	perMs := float64(elapsed) / float64(time.Millisecond)
	e.velocity = delta.Mult(e.cfg.VelocityScale / perMs)
	e.Apply()
}

// PointerUp ends the drag and starts coasting if the release was fast
// enough.
func (e *Engine) PointerUp() {
	if !e.dragging {
		return
	}
	e.dragging = false
	if e.clock.Now()-e.lastT > releaseWindow {
		e.velocity = cp.Vector{}
	}
	if e.velocity.Length() <= e.cfg.MinVelocity {
		e.velocity = cp.Vector{}
		return
	}
	e.ticks = 0
	e.inertia = e.clock.Every(clock.FrameInterval, e.coast)
	e.log.Debug().Float64("pitch_v", e.velocity.X).Float64("yaw_v", e.velocity.Y).Msg("inertia start")
}

func (e *Engine) coast() {
	e.ticks++
	e.rotate(e.velocity.X, e.velocity.Y)
	e.velocity = e.velocity.Mult(e.cfg.Damping)
	e.Apply()
	if math.Abs(e.velocity.X) < e.cfg.MinVelocity && math.Abs(e.velocity.Y) < e.cfg.MinVelocity {
		e.velocity = cp.Vector{}
		e.stopInertia()
		e.log.Debug().Int("ticks", e.ticks).Msg("inertia settled")
	}
}

// Apply pushes the orientation to the target.
func (e *Engine) Apply() {
	if e.target != nil {
		e.target.ApplyRotation(e.state.Pitch, e.state.Yaw)
	}
}

// Set jumps to an orientation, clamping pitch.
func (e *Engine) Set(s State) {
	e.state = State{Pitch: clampPitch(s.Pitch, e.cfg.PitchLimit), Yaw: s.Yaw}
	e.Apply()
}

// Reset stops all motion and returns to the default orientation.
func (e *Engine) Reset() {
	e.Cancel()
	e.Set(State{})
}

// Cancel stops inertia and any drag without moving.
func (e *Engine) Cancel() {
	e.stopInertia()
	e.dragging = false
	e.velocity = cp.Vector{}
}

func (e *Engine) rotate(dPitch, dYaw float64) {
	e.state.Pitch = clampPitch(e.state.Pitch+dPitch, e.cfg.PitchLimit)
	e.state.Yaw += dYaw
}

func (e *Engine) stopInertia() {
	if e.inertia != nil {
		e.inertia.Stop()
		e.inertia = nil
	}
}

func clampPitch(p, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, p))
}
