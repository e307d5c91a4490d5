package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWrapsAround(t *testing.T) {
	tl := Default()
	y := tl.First()
	var visited []Year
	for i := 0; i < 6; i++ {
		next, err := tl.Next(y)
		require.NoError(t, err)
		visited = append(visited, next)
		y = next
	}
	assert.Equal(t, []Year{2010, 2020, 2050, 2000, 2010, 2020}, visited)
}

func TestPrevWrapsAround(t *testing.T) {
	tl := Gaze()
	prev, err := tl.Prev(2000)
	require.NoError(t, err)
	assert.Equal(t, Year(2050), prev)
}

func TestMembershipIsClosed(t *testing.T) {
	tests := []struct {
		name  string
		tl    Timeline
		input string
		ok    bool
	}{
		{"member", Default(), "2010", true},
		{"trimmed", Default(), " 2050 ", true},
		{"not_member", Default(), "2030", false},
		{"gaze_has_no_2010", Gaze(), "2010", false},
		{"garbage", Default(), "soon", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tl.Parse(tc.input)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnknownYear)
		})
	}

	_, err := Default().Next(1999)
	assert.ErrorIs(t, err, ErrUnknownYear)
}

func TestNewRejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
	_, err = New(2000, 2000)
	assert.Error(t, err)
}
