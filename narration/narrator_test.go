package narration

import (
	"testing"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/scenes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeDisplay struct {
	lines   []string
	clears  int
	current string
}

func (d *fakeDisplay) ShowSubtitle(text string, _ time.Duration) {
	d.lines = append(d.lines, text)
	d.current = text
}

func (d *fakeDisplay) ClearSubtitle() {
	d.clears++
	d.current = ""
}

func content() *scenes.Content {
	return &scenes.Content{Years: []scenes.YearSpec{
		{Year: 2000, Subtitles: []scenes.Cue{{AtMs: 0, Text: "a"}, {AtMs: 1000, Text: "b"}}},
		{Year: 2050, Subtitles: []scenes.Cue{{AtMs: 500, Text: "z"}}},
	}}
}

func TestBeginShowsCuesInOrder(t *testing.T) {
	c := clock.New()
	d := &fakeDisplay{}
	n := New(c, zerolog.Nop(), d, content())

	n.Begin(2000)
	assert.Equal(t, 2, n.Pending())

	c.Advance(time.Millisecond)
	assert.Equal(t, []string{"a"}, d.lines)

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, d.lines)
	assert.Zero(t, n.Pending())
	assert.Equal(t, 2, n.Shown())
}

func TestCancelStopsPendingCues(t *testing.T) {
	c := clock.New()
	d := &fakeDisplay{}
	n := New(c, zerolog.Nop(), d, content())

	n.Begin(2000)
	c.Advance(time.Millisecond)
	n.Cancel()
	c.Advance(5 * time.Second)

	assert.Equal(t, []string{"a"}, d.lines)
	assert.Zero(t, c.Pending())
	assert.Empty(t, d.current)
}

func TestBeginReplacesPreviousYear(t *testing.T) {
	c := clock.New()
	d := &fakeDisplay{}
	n := New(c, zerolog.Nop(), d, content())

	n.Begin(2000)
	n.Begin(2050)
	c.Advance(2 * time.Second)

	assert.Equal(t, []string{"z"}, d.lines)
}

func TestDisabledSubtitlesStaySilent(t *testing.T) {
	c := clock.New()
	d := &fakeDisplay{}
	n := New(c, zerolog.Nop(), d, content())

	assert.False(t, n.Toggle())
	n.Begin(2000)
	c.Advance(2 * time.Second)

	assert.Empty(t, d.lines)
	assert.Equal(t, 2, n.Shown())
}
