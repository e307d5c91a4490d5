package transition

import (
	"testing"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOverlay struct {
	alphas []float64
}

func (o *recordingOverlay) SetOpacity(a float64) { o.alphas = append(o.alphas, a) }

func TestFadeOutThenIn(t *testing.T) {
	c := clock.New()
	ov := &recordingOverlay{}
	s := New(c, zerolog.Nop(), ov, 500*time.Millisecond)

	out := s.FadeToOpaque()
	assert.Equal(t, PhaseFadeOut, s.Phase())
	c.Advance(250 * time.Millisecond)
	assert.False(t, out.Done())
	assert.Greater(t, s.Opacity(), 0.0)
	assert.Less(t, s.Opacity(), 1.0)

	c.Advance(300 * time.Millisecond)
	require.True(t, out.Done())
	assert.Equal(t, 1.0, s.Opacity())
	assert.Equal(t, PhaseNone, s.Phase())

	mark := len(ov.alphas)
	in := s.FadeFromOpaque()
	c.Advance(time.Second)
	require.True(t, in.Done())
	assert.Equal(t, 0.0, s.Opacity())

	descending := ov.alphas[mark:]
	require.NotEmpty(t, descending)
	for i := 1; i < len(descending); i++ {
		assert.LessOrEqual(t, descending[i], descending[i-1])
	}
	assert.Equal(t, 0.0, descending[len(descending)-1])
}

func TestMissingOverlayCompletesImmediately(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), nil, time.Second)

	out := s.FadeToOpaque()
	assert.True(t, out.Done())
	assert.NoError(t, out.Err())
	assert.True(t, s.FadeFromOpaque().Done())
	assert.Equal(t, 0, c.Pending())
}

func TestNewRampSupersedesOld(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), &recordingOverlay{}, 500*time.Millisecond)

	out := s.FadeToOpaque()
	c.Advance(100 * time.Millisecond)
	in := s.FadeFromOpaque()
	assert.True(t, out.Done())
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Second)
	assert.True(t, in.Done())
	assert.Equal(t, 0.0, s.Opacity())
}

func TestCancelStopsRamp(t *testing.T) {
	c := clock.New()
	s := New(c, zerolog.Nop(), &recordingOverlay{}, 500*time.Millisecond)
	out := s.FadeToOpaque()
	s.Cancel()
	assert.True(t, out.Done())
	assert.Equal(t, 0, c.Pending())
}
