package main

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeader(t *testing.T) {
	data := encode(8000, 0.5, chord([]float64{440}))

	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(4000*2), binary.LittleEndian.Uint32(data[40:44]))
}

func TestEncodeDecodes(t *testing.T) {
	data := encode(11025, 0.25, voice(880))
	stream, err := wav.DecodeWithoutResampling(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Positive(t, stream.Length())
}

func TestEncodeStartsSilent(t *testing.T) {
	data := encode(8000, 0.5, chord([]float64{440, 660}))
	first := int16(binary.LittleEndian.Uint16(data[44:46]))
	assert.Equal(t, int16(0), first)
}
