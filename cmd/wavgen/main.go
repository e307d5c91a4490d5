// Command wavgen writes the placeholder soundtrack into assets/audio: a
// chord loop and a short voice tone per year, an ambient bed and a
// transition whoosh.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/milk9111/timemachine/logging"
)

const amplitude = 0.8

var chords = map[int][]float64{
	2000: {261.6, 329.6, 392.0},
	2010: {220.0, 261.6, 329.6},
	2020: {196.0, 233.1, 293.7},
	2050: {174.6, 207.7, 246.9},
}

type sample func(t float64) float64

type track struct {
	secs float64
	fn   sample
}

func main() {
	out := flag.String("out", "assets/audio", "output directory")
	rate := flag.Int("rate", 11025, "sample rate in Hz")
	flag.Parse()

	log := logging.New(os.Stderr, logging.Options{Level: "info", Pretty: true})

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *out).Msg("create output dir")
	}

	rng := rand.New(rand.NewSource(7))
	tracks := map[string]track{
		"ambient.wav": {3, brown(rng)},
		"whoosh.wav":  {0.6, whoosh(rng, 0.6)},
	}
	for year, freqs := range chords {
		tracks[fmt.Sprintf("music_%d.wav", year)] = track{3, chord(freqs)}
		tracks[fmt.Sprintf("voice_%d.wav", year)] = track{1.5, voice(freqs[0] * 2)}
	}

	for name, tr := range tracks {
		path := filepath.Join(*out, name)
		data := encode(*rate, tr.secs, tr.fn)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("write track")
		}
		log.Info().Str("path", path).Int("bytes", len(data)).Msg("wrote track")
	}
}

func chord(freqs []float64) sample {
	return func(t float64) float64 {
		v := 0.0
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * t)
		}
		return v / float64(len(freqs)) * 0.6
	}
}

func voice(f float64) sample {
	return func(t float64) float64 {
		return math.Sin(2*math.Pi*f*t) * 0.3 * (0.5 + 0.5*math.Sin(2*math.Pi*3*t))
	}
}

func brown(rng *rand.Rand) sample {
	prev := 0.0
	return func(t float64) float64 {
		prev = prev*0.98 + (rng.Float64()*2-1)*0.05
		return prev * 2
	}
}

func whoosh(rng *rand.Rand, secs float64) sample {
	return func(t float64) float64 {
		return (rng.Float64()*2 - 1) * math.Sin(math.Pi*t/secs) * 0.5
	}
}

// encode renders a mono 16-bit PCM wav. Both ends get a short ramp so
// looping tracks do not click.
func encode(rate int, secs float64, fn sample) []byte {
	n := int(float64(rate) * secs)
	pcm := make([]int16, n)
	for i := range pcm {
		t := float64(i) / float64(rate)
		env := math.Min(1, math.Min(t/0.05, (secs-t)/0.05))
		v := math.Max(-1, math.Min(1, fn(t)*env))
		pcm[i] = int16(v * math.MaxInt16 * amplitude)
	}

	var buf bytes.Buffer
	dataLen := uint32(n * 2)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, struct {
		Size          uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{16, 1, 1, uint32(rate), uint32(rate * 2), 2, 16})
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	binary.Write(&buf, binary.LittleEndian, pcm)
	return buf.Bytes()
}
