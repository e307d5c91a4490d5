package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockAfterAndEvery(t *testing.T) {
	tests := []struct {
		name    string
		advance []time.Duration
		want    []string
	}{
		{"nothing_due", []time.Duration{50 * time.Millisecond}, nil},
		{"one_shot_fires_once", []time.Duration{100 * time.Millisecond, time.Second}, []string{"after", "every", "every", "every", "every", "every", "every", "every", "every", "every", "every", "every"}},
		{"order_by_deadline", []time.Duration{300 * time.Millisecond}, []string{"after", "every", "every", "every"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			var got []string
			c.After(100*time.Millisecond, func() { got = append(got, "after") })
			c.Every(100*time.Millisecond, func() { got = append(got, "every") })
			for _, d := range tc.advance {
				c.Advance(d)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimerStop(t *testing.T) {
	c := New()
	fired := 0
	tm := c.Every(10*time.Millisecond, func() { fired++ })
	c.Advance(25 * time.Millisecond)
	require.Equal(t, 2, fired)

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop reports already stopped")
	c.Advance(time.Second)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestTimerStoppedFromOwnCallback(t *testing.T) {
	c := New()
	fired := 0
	var tm *Timer
	tm = c.Every(10*time.Millisecond, func() {
		fired++
		if fired == 3 {
			tm.Stop()
		}
	})
	c.Advance(time.Second)
	assert.Equal(t, 3, fired)
	assert.False(t, tm.Active())
}

func TestTimerElapsed(t *testing.T) {
	c := New()
	tm := c.Every(100*time.Millisecond, func() {})
	c.Advance(30 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, tm.Elapsed())
	c.Advance(100 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, tm.Elapsed())
}

func TestCallbackScheduledTimersRunInSameAdvance(t *testing.T) {
	c := New()
	var got []time.Duration
	c.After(10*time.Millisecond, func() {
		got = append(got, c.Now())
		c.After(10*time.Millisecond, func() { got = append(got, c.Now()) })
	})
	c.Advance(50 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, got)
	assert.Equal(t, 50*time.Millisecond, c.Now())
}

func TestChainRunsStepsInOrder(t *testing.T) {
	c := New()
	var order []string
	out := Chain(
		Step{Name: "a", Run: func() *Future { order = append(order, "a"); return nil }},
		Step{Name: "b", Run: func() *Future { order = append(order, "b"); return c.Delay(100 * time.Millisecond) }},
		Step{Name: "c", Run: func() *Future { order = append(order, "c"); return nil }},
	)

	assert.Equal(t, []string{"a", "b"}, order)
	assert.False(t, out.Done())

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	require.True(t, out.Done())
	assert.NoError(t, out.Err())
}

func TestChainStopsOnErrorAndPanic(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		step  Step
		check func(t *testing.T, err error)
	}{
		{
			name: "error",
			step: Step{Name: "fail", Run: func() *Future { return Resolved(boom) }},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, boom)
				assert.Contains(t, err.Error(), "fail")
			},
		},
		{
			name: "panic",
			step: Step{Name: "explode", Run: func() *Future { panic("kaboom") }},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "explode: panic: kaboom")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ranAfter := false
			out := Chain(tc.step, Step{Name: "after", Run: func() *Future { ranAfter = true; return nil }})
			require.True(t, out.Done())
			tc.check(t, out.Err())
			assert.False(t, ranAfter)
		})
	}
}

func TestFutureResolvesOnce(t *testing.T) {
	f := NewFuture()
	calls := 0
	f.Then(func(error) { calls++ })
	assert.True(t, f.Resolve(nil))
	assert.False(t, f.Resolve(errors.New("late")))
	assert.NoError(t, f.Err())
	f.Then(func(error) { calls++ })
	assert.Equal(t, 2, calls)
}
