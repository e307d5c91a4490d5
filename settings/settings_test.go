package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, VariantDesktop, s.Variant)
	assert.Equal(t, 1.0, s.Audio.Master)
	assert.Equal(t, 0.5, s.Audio.Ambient)
	assert.Equal(t, time.Second, s.Audio.Fade)
	assert.Equal(t, 20, s.Audio.FadeSteps)
	assert.Equal(t, 500*time.Millisecond, s.Transition.Fade)
	assert.Equal(t, 300*time.Millisecond, s.Transition.Settle)
	assert.True(t, s.AutoPlay.Enabled)
	assert.Equal(t, 15*time.Second, s.AutoPlay.Interval)
	assert.Equal(t, 0.95, s.Rotation.Damping)
	assert.Equal(t, 1500*time.Millisecond, s.Gaze.Dwell)
	assert.Equal(t, "scenes", s.Content.Dir)
}

func TestLoad_WithConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := "variant: gaze\naudio:\n  master: 0.8\nautoplay:\n  intervalMs: 5000\n"
	path := filepath.Join(dir, "timemachine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, VariantGaze, s.Variant)
	assert.Equal(t, 0.8, s.Audio.Master)
	assert.Equal(t, 5*time.Second, s.AutoPlay.Interval)
	assert.False(t, s.AutoPlay.Enabled, "gaze variant does not auto-play unless asked")
}

func TestLoad_ExplicitAutoPlayWins(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("TIMEMACHINE_VARIANT", "gaze")
	t.Setenv("TIMEMACHINE_AUTOPLAY_ENABLED", "true")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, VariantGaze, s.Variant)
	assert.True(t, s.AutoPlay.Enabled)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/timemachine.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"variant", func(s *Settings) { s.Variant = "vr" }},
		{"master", func(s *Settings) { s.Audio.Master = 1.5 }},
		{"ambient", func(s *Settings) { s.Audio.Ambient = -0.1 }},
		{"steps", func(s *Settings) { s.Audio.FadeSteps = 0 }},
		{"damping", func(s *Settings) { s.Rotation.Damping = 1 }},
		{"interval", func(s *Settings) { s.AutoPlay.Interval = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}
