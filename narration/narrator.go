// Package narration shows a year's subtitle cues in step with its voice
// track.
package narration

import (
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

// Display renders one subtitle line at a time.
type Display interface {
	ShowSubtitle(text string, d time.Duration)
	ClearSubtitle()
}

// Narrator owns the subtitle timers of the year being narrated. Every
// timer it starts is stopped by Cancel.
type Narrator struct {
	clock   *clock.Clock
	log     zerolog.Logger
	display Display
	cues    map[timeline.Year][]scenes.Cue
	enabled bool

	year   timeline.Year
	timers []*clock.Timer
	shown  int
}

func New(c *clock.Clock, logger zerolog.Logger, display Display, content *scenes.Content) *Narrator {
	n := &Narrator{
		clock:   c,
		log:     logger,
		display: display,
		enabled: true,
	}
	n.Load(content)
	return n
}

// Load replaces the cue table. Cues already scheduled keep running.
func (n *Narrator) Load(content *scenes.Content) {
	n.cues = make(map[timeline.Year][]scenes.Cue)
	if content == nil {
		return
	}
	for _, y := range content.Years {
		n.cues[timeline.Year(y.Year)] = y.Subtitles
	}
}

func (n *Narrator) Enabled() bool { return n.enabled }

// SetEnabled toggles subtitles. Turning them off clears the current line;
// timers keep running so turning them back on resumes at the next cue.
func (n *Narrator) SetEnabled(on bool) {
	n.enabled = on
	if !on && n.display != nil {
		n.display.ClearSubtitle()
	}
}

func (n *Narrator) Toggle() bool {
	n.SetEnabled(!n.enabled)
	return n.enabled
}

// Begin cancels any running narration and schedules year's cues.
func (n *Narrator) Begin(year timeline.Year) {
	n.Cancel()
	n.year = year
	n.shown = 0
	for _, cue := range n.cues[year] {
		n.timers = append(n.timers, n.clock.After(cue.At(), func() {
			n.shown++
			if !n.enabled || n.display == nil {
				return
			}
			n.display.ShowSubtitle(cue.Text, cue.Duration())
		}))
	}
	n.log.Debug().Stringer("year", year).Int("cues", len(n.timers)).Msg("narration begin")
}

// Cancel stops every pending cue and clears the subtitle line.
func (n *Narrator) Cancel() {
	for _, t := range n.timers {
		t.Stop()
	}
	n.timers = n.timers[:0]
	if n.display != nil {
		n.display.ClearSubtitle()
	}
}

// Pending reports how many cues are still scheduled.
func (n *Narrator) Pending() int {
	count := 0
	for _, t := range n.timers {
		if t.Active() {
			count++
		}
	}
	return count
}

// Shown reports how many cues have fired since the last Begin.
func (n *Narrator) Shown() int { return n.shown }
