package autoplay

import (
	"testing"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instant commits every request immediately.
type instant struct {
	year    timeline.Year
	visited []timeline.Year
}

func (i *instant) CurrentYear() timeline.Year { return i.year }

func (i *instant) RequestTransition(y timeline.Year) (*clock.Future, error) {
	i.year = y
	i.visited = append(i.visited, y)
	return clock.Resolved(nil), nil
}

func TestTickSequenceIsCyclic(t *testing.T) {
	c := clock.New()
	target := &instant{year: 2000}
	s := New(c, zerolog.Nop(), timeline.Default(), target, time.Second)
	s.Start()

	c.Advance(6 * time.Second)
	assert.Equal(t, []timeline.Year{2010, 2020, 2050, 2000, 2010, 2020}, target.visited)
}

func TestResetRestartsCountdown(t *testing.T) {
	c := clock.New()
	target := &instant{year: 2000}
	s := New(c, zerolog.Nop(), timeline.Default(), target, time.Second)
	s.Start()

	c.Advance(900 * time.Millisecond)
	// manual change right before the tick would fire
	target.year = 2020
	s.Reset()

	c.Advance(900 * time.Millisecond)
	assert.Empty(t, target.visited, "no fire within one interval of the reset")
	assert.Equal(t, 1, c.Pending(), "only one interval alive")

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []timeline.Year{2050}, target.visited)
}

func TestStopIsIdempotent(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), timeline.Default(), &instant{year: 2000}, time.Second)
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
	c.Advance(10 * time.Second)
	assert.Equal(t, 0, s.Ticks())
}

func TestResetWhileStoppedStaysStopped(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), timeline.Default(), &instant{year: 2000}, time.Second)
	s.Reset()
	assert.False(t, s.Running())
	assert.Equal(t, 0, c.Pending())
}

func TestToggleAndProgress(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), timeline.Default(), &instant{year: 2000}, time.Second)
	require.True(t, s.Toggle())
	c.Advance(250 * time.Millisecond)
	assert.InDelta(t, 0.25, s.Progress(), 1e-9)
	require.False(t, s.Toggle())
	assert.Equal(t, 0.0, s.Progress())
}

type busy struct{ instant }

func (b *busy) RequestTransition(timeline.Year) (*clock.Future, error) {
	return nil, assert.AnError
}

func TestBusyTargetSkipsTick(t *testing.T) {
	c := clock.New()
	target := &busy{instant{year: 2000}}
	s := New(c, zerolog.Nop(), timeline.Default(), target, time.Second)
	s.Start()
	c.Advance(3 * time.Second)
	assert.Equal(t, 3, s.Ticks())
	assert.Equal(t, timeline.Year(2000), target.CurrentYear())
	assert.True(t, s.Running())
}
