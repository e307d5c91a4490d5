// Package settings loads runtime settings from defaults, an optional
// timemachine.yaml and TIMEMACHINE_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	VariantDesktop = "desktop"
	VariantGaze    = "gaze"
)

var ErrInvalidSettings = errors.New("settings: invalid")

type Settings struct {
	LogLevel string
	Variant  string

	Audio      Audio
	Transition Transition
	AutoPlay   AutoPlay
	Rotation   Rotation
	Gaze       Gaze
	Content    Content
}

type Audio struct {
	Master    float64
	Ambient   float64
	Fade      time.Duration
	FadeSteps int
}

type Transition struct {
	Fade   time.Duration
	Settle time.Duration
}

type AutoPlay struct {
	Enabled  bool
	Interval time.Duration
}

type Rotation struct {
	Sensitivity   float64
	Damping       float64
	MinVelocity   float64
	VelocityScale float64
}

type Gaze struct {
	Dwell time.Duration
}

type Content struct {
	Dir   string
	Watch bool
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("variant", VariantDesktop)

	viper.SetDefault("audio.master", 1.0)
	viper.SetDefault("audio.ambient", 0.5)
	viper.SetDefault("audio.fadeMs", 1000)
	viper.SetDefault("audio.fadeSteps", 20)

	viper.SetDefault("transition.fadeMs", 500)
	viper.SetDefault("transition.settleMs", 300)

	// autoplay.enabled has no default: it follows the variant unless set.
	viper.SetDefault("autoplay.intervalMs", 15000)

	viper.SetDefault("rotation.sensitivity", 0.3)
	viper.SetDefault("rotation.damping", 0.95)
	viper.SetDefault("rotation.minVelocity", 0.01)
	viper.SetDefault("rotation.velocityScale", 0.0)

	viper.SetDefault("gaze.dwellMs", 1500)

	viper.SetDefault("content.dir", "scenes")
	viper.SetDefault("content.watch", false)
}

// Load reads settings. configFile may be empty, in which case
// timemachine.yaml is looked up in the working directory and is optional.
func Load(configFile string) (Settings, error) {
	setDefaults()

	viper.SetEnvPrefix("TIMEMACHINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("timemachine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	return Current()
}

// Current builds Settings from whatever viper holds now.
func Current() (Settings, error) {
	s := Settings{
		LogLevel: viper.GetString("log.level"),
		Variant:  strings.ToLower(viper.GetString("variant")),
		Audio: Audio{
			Master:    viper.GetFloat64("audio.master"),
			Ambient:   viper.GetFloat64("audio.ambient"),
			Fade:      millis("audio.fadeMs"),
			FadeSteps: viper.GetInt("audio.fadeSteps"),
		},
		Transition: Transition{
			Fade:   millis("transition.fadeMs"),
			Settle: millis("transition.settleMs"),
		},
		AutoPlay: AutoPlay{
			Interval: millis("autoplay.intervalMs"),
		},
		Rotation: Rotation{
			Sensitivity:   viper.GetFloat64("rotation.sensitivity"),
			Damping:       viper.GetFloat64("rotation.damping"),
			MinVelocity:   viper.GetFloat64("rotation.minVelocity"),
			VelocityScale: viper.GetFloat64("rotation.velocityScale"),
		},
		Gaze: Gaze{
			Dwell: millis("gaze.dwellMs"),
		},
		Content: Content{
			Dir:   viper.GetString("content.dir"),
			Watch: viper.GetBool("content.watch"),
		},
	}

	if viper.IsSet("autoplay.enabled") {
		s.AutoPlay.Enabled = viper.GetBool("autoplay.enabled")
	} else {
		s.AutoPlay.Enabled = s.Variant != VariantGaze
	}

	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch s.Variant {
	case VariantDesktop, VariantGaze:
	default:
		return fmt.Errorf("%w: variant %q", ErrInvalidSettings, s.Variant)
	}
	if s.Audio.Master < 0 || s.Audio.Master > 1 {
		return fmt.Errorf("%w: audio.master %v outside [0,1]", ErrInvalidSettings, s.Audio.Master)
	}
	if s.Audio.Ambient < 0 || s.Audio.Ambient > 1 {
		return fmt.Errorf("%w: audio.ambient %v outside [0,1]", ErrInvalidSettings, s.Audio.Ambient)
	}
	if s.Audio.FadeSteps <= 0 {
		return fmt.Errorf("%w: audio.fadeSteps must be positive", ErrInvalidSettings)
	}
	if s.Rotation.Damping <= 0 || s.Rotation.Damping >= 1 {
		return fmt.Errorf("%w: rotation.damping %v outside (0,1)", ErrInvalidSettings, s.Rotation.Damping)
	}
	if s.AutoPlay.Interval <= 0 {
		return fmt.Errorf("%w: autoplay.intervalMs must be positive", ErrInvalidSettings)
	}
	return nil
}

// Snapshot returns every effective key, for the debug console.
func Snapshot() map[string]any {
	return viper.AllSettings()
}

func millis(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Millisecond
}
