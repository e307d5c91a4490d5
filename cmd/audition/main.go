// Command audition previews a content file's soundtrack without the globe:
// arrow keys step through years with the same crossfade the experience
// uses, V replays the narration and C fires the transition cue.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/timemachine/assets"
	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/logging"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/sound"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

type auditionGame struct {
	log        zerolog.Logger
	clock      *clock.Clock
	engine     *sound.Engine
	soundtrack *sound.Soundtrack
	content    *scenes.Content
	timeline   timeline.Timeline
	current    timeline.Year
	busy       bool
}

func newAuditionGame(name string, fade time.Duration, log zerolog.Logger) (*auditionGame, error) {
	content, err := scenes.LoadContent(name)
	if err != nil {
		return nil, err
	}
	tl, err := content.Timeline()
	if err != nil {
		return nil, err
	}

	g := &auditionGame{log: log, clock: clock.New(), content: content, timeline: tl, current: tl.First()}
	g.engine = sound.NewEngine(g.clock, log, sound.Options{Ready: assets.Ready})
	g.soundtrack = sound.NewSoundtrack(g.engine, log, fade)

	load := func(path string, kind sound.Kind, loop bool) string {
		if path == "" {
			return ""
		}
		if g.engine.Has(path) {
			return path
		}
		player, err := assets.LoadAudioPlayer(path, loop)
		if err != nil {
			log.Warn().Err(err).Str("track", path).Msg("skip track")
			return ""
		}
		if err := g.engine.Register(path, kind, player, 1); err != nil {
			log.Warn().Err(err).Str("track", path).Msg("skip track")
			return ""
		}
		return path
	}

	g.soundtrack.SetAmbient(load(content.Audio.Ambient, sound.Ambient, true))
	g.soundtrack.SetCue(load(content.Audio.Cue, sound.Cue, false))
	for _, y := range content.Years {
		g.soundtrack.Bind(timeline.Year(y.Year), load(y.Music, sound.Foreground, true), load(y.Narration, sound.Voice, false))
	}

	g.soundtrack.StartYear(g.current)
	return g, nil
}

func (g *auditionGame) Update() error {
	g.clock.Advance(clock.FrameInterval)

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.step(g.timeline.Next)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.step(g.timeline.Prev)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.soundtrack.PlayCue()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if spec, ok := g.content.Year(g.current); ok && spec.Narration != "" {
			if err := g.engine.PlayOnce(spec.Narration); err != nil {
				g.log.Warn().Err(err).Msg("replay narration")
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if g.engine.Muted() {
			g.engine.Unmute()
		} else {
			g.engine.Mute()
		}
	}
	if len(inpututil.AppendJustPressedKeys(nil)) > 0 {
		g.engine.RetryBlocked()
	}
	return nil
}

func (g *auditionGame) step(next func(timeline.Year) (timeline.Year, error)) {
	if g.busy {
		return
	}
	to, err := next(g.current)
	if err != nil {
		return
	}
	g.busy = true
	from := g.current
	g.soundtrack.PlayCue()
	g.soundtrack.StopYear(from).Then(func(error) {
		g.current = to
		g.soundtrack.StartYear(to).Then(func(error) { g.busy = false })
	})
}

func (g *auditionGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x08, 0x12, 0x20, 0xff})

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", g.content.Name, g.current)
	if spec, ok := g.content.Year(g.current); ok {
		fmt.Fprintf(&b, "%s\n\n", spec.Title)
	}
	for _, id := range g.engine.Audible() {
		fmt.Fprintf(&b, "%-28s %.2f\n", id, g.engine.Volume(id))
	}
	fmt.Fprintf(&b, "\nmuted: %v\n<- -> year   V narration   C cue   M mute", g.engine.Muted())
	ebitenutil.DebugPrint(screen, b.String())
}

func (g *auditionGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 512, 320
}

func main() {
	name := flag.String("content", "ocean", "content file under scenes/")
	fade := flag.Duration("fade", time.Second, "crossfade duration")
	flag.Parse()

	log := logging.Component(logging.New(os.Stderr, logging.Options{Level: "debug", Pretty: true}), "audition")

	g, err := newAuditionGame(*name, *fade, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load content")
	}

	ebiten.SetWindowSize(512, 320)
	ebiten.SetWindowTitle("Soundtrack Audition")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
	g.engine.Close()
}
