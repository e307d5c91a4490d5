// Package scenes holds the read-only content of the experience: per-year
// titles, audio, subtitles and hotspots.
package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/timemachine/timeline"
	"gopkg.in/yaml.v3"
)

var ErrInvalidContent = errors.New("scenes: invalid content")

type Content struct {
	Name     string      `yaml:"name"`
	Years    []YearSpec  `yaml:"years"`
	Hotspots []Hotspot   `yaml:"hotspots"`
	Audio    SharedAudio `yaml:"audio"`
}

type SharedAudio struct {
	Ambient       string  `yaml:"ambient"`
	AmbientVolume float64 `yaml:"ambient_volume"`
	Cue           string  `yaml:"cue"`
	CueVolume     float64 `yaml:"cue_volume"`
}

type YearSpec struct {
	Year        int     `yaml:"year"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Music       string  `yaml:"music"`
	Narration   string  `yaml:"narration"`
	Subtitles   []Cue   `yaml:"subtitles"`
	WaterLevel  float64 `yaml:"water_level"`
	OceanColor  string  `yaml:"ocean_color"`
	LandColor   string  `yaml:"land_color"`
}

// Cue is one subtitle line, offset from the start of the narration.
type Cue struct {
	AtMs       int    `yaml:"at_ms"`
	DurationMs int    `yaml:"duration_ms"`
	Text       string `yaml:"text"`
}

func (c Cue) At() time.Duration { return time.Duration(c.AtMs) * time.Millisecond }

func (c Cue) Duration() time.Duration { return time.Duration(c.DurationMs) * time.Millisecond }

type Hotspot struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label"`
	Info  string  `yaml:"info"`
	Lat   float64 `yaml:"lat"`
	Lon   float64 `yaml:"lon"`
	Years []int   `yaml:"years"`
}

// VisibleIn reports whether the hotspot belongs to year. No years means all.
func (h Hotspot) VisibleIn(year timeline.Year) bool {
	if len(h.Years) == 0 {
		return true
	}
	for _, y := range h.Years {
		if timeline.Year(y) == year {
			return true
		}
	}
	return false
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scenes: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scenes: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadContent reads and validates a content file.
func LoadContent(filename string) (*Content, error) {
	c, err := LoadSpec[Content](filename)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("scenes: %s: %w", filename, err)
	}
	return &c, nil
}

// Validate checks years are unique, cues are ordered and hotspots only
// reference known years.
func (c *Content) Validate() error {
	if len(c.Years) == 0 {
		return fmt.Errorf("%w: no years", ErrInvalidContent)
	}
	known := make(map[int]struct{}, len(c.Years))
	for _, y := range c.Years {
		if _, dup := known[y.Year]; dup {
			return fmt.Errorf("%w: duplicate year %d", ErrInvalidContent, y.Year)
		}
		known[y.Year] = struct{}{}
		if !sort.SliceIsSorted(y.Subtitles, func(i, j int) bool { return y.Subtitles[i].AtMs < y.Subtitles[j].AtMs }) {
			return fmt.Errorf("%w: year %d subtitles out of order", ErrInvalidContent, y.Year)
		}
		for _, field := range []string{y.OceanColor, y.LandColor} {
			if field == "" {
				continue
			}
			if _, err := ParseHexColor(field); err != nil {
				return fmt.Errorf("%w: year %d: %v", ErrInvalidContent, y.Year, err)
			}
		}
	}
	ids := make(map[string]struct{}, len(c.Hotspots))
	for _, h := range c.Hotspots {
		if h.ID == "" {
			return fmt.Errorf("%w: hotspot without id", ErrInvalidContent)
		}
		if _, dup := ids[h.ID]; dup {
			return fmt.Errorf("%w: duplicate hotspot %q", ErrInvalidContent, h.ID)
		}
		ids[h.ID] = struct{}{}
		for _, y := range h.Years {
			if _, ok := known[y]; !ok {
				return fmt.Errorf("%w: hotspot %q references unknown year %d", ErrInvalidContent, h.ID, y)
			}
		}
	}
	return nil
}

// Timeline returns the years in file order.
func (c *Content) Timeline() (timeline.Timeline, error) {
	years := make([]timeline.Year, 0, len(c.Years))
	for _, y := range c.Years {
		years = append(years, timeline.Year(y.Year))
	}
	return timeline.New(years...)
}

// Year looks up the content entry for a year.
func (c *Content) Year(year timeline.Year) (YearSpec, bool) {
	for _, y := range c.Years {
		if timeline.Year(y.Year) == year {
			return y, true
		}
	}
	return YearSpec{}, false
}

// Hotspot looks up a hotspot by id.
func (c *Content) Hotspot(id string) (Hotspot, bool) {
	for _, h := range c.Hotspots {
		if h.ID == id {
			return h, true
		}
	}
	return Hotspot{}, false
}

// ParseHexColor reads #rgb, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
