package stage

import (
	"testing"

	"github.com/ebitenui/ebitenui/event"
	"github.com/milk9111/timemachine/assets"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/ecs/entity"
	"github.com/milk9111/timemachine/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestControls(t *testing.T) (*Controls, *component.Input) {
	t.Helper()
	w := ecs.NewWorld()
	_, err := entity.NewInput(w)
	require.NoError(t, err)
	face, err := assets.Face(15)
	require.NoError(t, err)

	c := NewControls(w, timeline.Default(), face)
	event.ExecuteDeferred()

	input, ok := ecs.Singleton(w, component.InputComponent.Kind())
	require.True(t, ok)
	return c, input
}

func TestControlsStartOnFirstYearWithoutCommand(t *testing.T) {
	c, input := newTestControls(t)

	year, ok := c.activeYear()
	require.True(t, ok)
	assert.Equal(t, timeline.Year(2000), year)
	assert.Empty(t, input.Commands)
}

func TestControlsPickRequestsYear(t *testing.T) {
	c, input := newTestControls(t)

	c.group.SetActive(c.yearButtons[2])
	event.ExecuteDeferred()

	require.Len(t, input.Commands, 1)
	assert.Equal(t, component.Command{Action: component.ActionSelectYear, Index: 2}, input.Commands[0])
	assert.True(t, input.Gesture)
}

func TestControlsRevertRejectedPick(t *testing.T) {
	c, input := newTestControls(t)
	c.SetActiveYear(2010)
	event.ExecuteDeferred()
	require.Empty(t, input.Commands)

	// The pick is dropped while a transition runs, so the committed year
	// stays at 2010.
	c.group.SetActive(c.yearButtons[3])
	event.ExecuteDeferred()
	require.Len(t, input.Commands, 1)
	input.Commands = nil

	c.SetActiveYear(2010)
	event.ExecuteDeferred()

	year, ok := c.activeYear()
	require.True(t, ok)
	assert.Equal(t, timeline.Year(2010), year)
	assert.Empty(t, input.Commands)
}

func TestControlsSetActiveYear(t *testing.T) {
	tests := []struct {
		name string
		year timeline.Year
		want timeline.Year
	}{
		{name: "known year", year: 2020, want: 2020},
		{name: "last year", year: 2050, want: 2050},
		{name: "unknown year keeps selection", year: 1999, want: 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, input := newTestControls(t)

			c.SetActiveYear(tt.year)
			event.ExecuteDeferred()
			c.SetActiveYear(tt.year)
			event.ExecuteDeferred()

			year, ok := c.activeYear()
			require.True(t, ok)
			assert.Equal(t, tt.want, year)
			assert.Empty(t, input.Commands)
		})
	}
}
