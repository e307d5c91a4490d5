package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, 2.0, Lerp(2, 6, 0))
	assert.Equal(t, 4.0, Lerp(2, 6, 0.5))
	assert.Equal(t, 6.0, Lerp(2, 6, 1))
	assert.Equal(t, 0.0, Lerp(1, 0, 1))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"below", -1, 0, 1, 0},
		{"inside", 0.25, 0, 1, 0.25},
		{"above", 3, 0, 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.v, tc.lo, tc.hi))
		})
	}
	assert.Equal(t, 1.0, Clamp01(7))
}
