package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime/debug"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/timemachine/assets"
	"github.com/milk9111/timemachine/autoplay"
	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/console"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/ecs/entity"
	"github.com/milk9111/timemachine/ecs/system"
	"github.com/milk9111/timemachine/gaze"
	"github.com/milk9111/timemachine/logging"
	"github.com/milk9111/timemachine/narration"
	"github.com/milk9111/timemachine/rotation"
	"github.com/milk9111/timemachine/scene"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/settings"
	"github.com/milk9111/timemachine/sound"
	"github.com/milk9111/timemachine/stage"
	"github.com/milk9111/timemachine/timeline"
	"github.com/milk9111/timemachine/transition"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth   = 1280
	baseHeight  = 720
	globeRadius = 0.38

	refreshNotice = "Something went wrong. Please refresh to restart the experience."
)

type Options struct {
	Settings  settings.Settings
	Debug     bool
	StartYear string
	Muted     bool
}

type Game struct {
	log      zerolog.Logger
	settings settings.Settings

	clock   *clock.Clock
	world   *ecs.World
	systems *ecs.Scheduler

	globe    *system.GlobeSystem
	stage    *stage.Stage
	hud      *stage.HUD
	controls *stage.Controls

	engine     *sound.Engine
	soundtrack *sound.Soundtrack
	narrator   *narration.Narrator
	fader      *transition.Sequencer
	machine    *scene.Machine
	rotation   *rotation.Engine
	autoplay   *autoplay.Scheduler
	controller *system.ControllerSystem

	console *console.Console
	watcher *scenes.Watcher

	contentName string
	content     *scenes.Content
	width       int
	height      int
	failed      bool
}

func NewGame(opts Options, logger zerolog.Logger) (*Game, error) {
	cfg := opts.Settings
	scenes.Dir = cfg.Content.Dir

	g := &Game{
		log:         logger,
		settings:    cfg,
		clock:       clock.New(),
		world:       ecs.NewWorld(),
		contentName: contentFor(cfg.Variant),
		width:       baseWidth,
		height:      baseHeight,
	}

	content, err := scenes.LoadContent(g.contentName)
	if err != nil {
		return nil, err
	}
	g.content = content
	tl, err := content.Timeline()
	if err != nil {
		return nil, fmt.Errorf("content timeline: %w", err)
	}

	built, err := entity.BuildScene(g.world, content, globeRadius)
	if err != nil {
		return nil, err
	}

	g.globe = system.NewGlobeSystem(globeRadius)
	g.stage = stage.New(g.world, built, content, g.globe, logging.Component(logger, "stage"))
	g.hud = stage.NewHUD(g.world, content)

	g.buildAudio(content, tl)

	g.fader = transition.New(g.clock, logging.Component(logger, "transition"), g.stage, cfg.Transition.Fade)
	g.machine, err = scene.New(scene.Deps{
		Clock:    g.clock,
		Logger:   logging.Component(logger, "scene"),
		Timeline: tl,
		Fader:    g.fader,
		Audio:    g.soundtrack,
		Visuals:  g.stage,
		Info:     g.hud,
		Animator: stage.NewAnimator(g.stage, stage.WaterTween),
		Settle:   cfg.Transition.Settle,
	})
	if err != nil {
		return nil, err
	}
	g.machine.OnCommit(func(y timeline.Year) {
		g.log.Info().Stringer("year", y).Msg("year committed")
	})

	g.rotation = rotation.New(g.clock, logging.Component(logger, "rotation"), g.stage, rotation.Config{
		Sensitivity:   cfg.Rotation.Sensitivity,
		VelocityScale: cfg.Rotation.VelocityScale,
		Damping:       cfg.Rotation.Damping,
		MinVelocity:   cfg.Rotation.MinVelocity,
		Exclude:       []string{system.TargetControls},
	})
	g.autoplay = autoplay.New(g.clock, logging.Component(logger, "autoplay"), tl, g.machine, cfg.AutoPlay.Interval)

	faces, err := loadFaces()
	if err != nil {
		return nil, err
	}
	g.controls = stage.NewControls(g.world, tl, faces[2])

	deps := system.ControllerDeps{
		Logger:    logging.Sampled(logging.Component(logger, "controller"), 30),
		Navigator: g.machine,
		Rotator:   g.rotation,
		AutoPlay:  g.autoplay,
		Mixer:     g.engine,
		Captions:  g.narrator,
		Display:   g.hud,
		Picker:    g.stage,
	}
	var cursor func() (int, int)
	if cfg.Variant == settings.VariantGaze {
		deps.Years = g.controls
		deps.Gaze = gaze.New(cfg.Gaze.Dwell)
		cursor = ebiten.CursorPosition
	}
	g.controller = system.NewControllerSystem(deps)

	g.systems = ecs.NewScheduler(
		system.NewInputSystem(g.controls.Contains),
		g.controls,
		g.controller,
		rotationApplier{g.rotation},
		g.globe,
		system.NewTweenSystem(),
		system.NewSubtitleSystem(),
		system.NewHUDSystem(faces[0], faces[1], faces[2], cursor),
		g.controls.Layer(),
		system.NewFadeSystem(),
	)

	g.console = console.New(gameControls{g}, logging.Component(logger, "console"), os.Stdout)
	if err := clipboard.Init(); err != nil {
		g.log.Warn().Err(err).Msg("clipboard unavailable, copy_state disabled")
	} else {
		g.console.SetClipboard(func(b []byte) error {
			clipboard.Write(clipboard.FmtText, b)
			return nil
		})
	}
	if opts.Debug {
		g.console.Listen(os.Stdin)
	}

	if cfg.Content.Watch {
		w, err := scenes.NewWatcher(cfg.Content.Dir)
		if err != nil {
			g.log.Warn().Err(err).Str("dir", cfg.Content.Dir).Msg("content watch disabled")
		} else {
			g.watcher = w
		}
	}

	g.start(tl, opts)
	return g, nil
}

// buildAudio registers every track the content references and binds them
// to years. Missing tracks are logged and left silent.
func (g *Game) buildAudio(content *scenes.Content, tl timeline.Timeline) {
	audioLog := logging.Component(g.log, "sound")
	master := g.settings.Audio.Master
	g.engine = sound.NewEngine(g.clock, audioLog, sound.Options{
		Master: &master,
		Steps:  g.settings.Audio.FadeSteps,
		Ready:  assets.Ready,
	})
	g.soundtrack = sound.NewSoundtrack(g.engine, audioLog, g.settings.Audio.Fade)
	g.narrator = narration.New(g.clock, logging.Component(g.log, "narration"), g.hud, content)
	g.soundtrack.SetCaptioner(g.narrator)

	register := func(path string, kind sound.Kind, loop bool, attenuation float64) string {
		if path == "" {
			return ""
		}
		if g.engine.Has(path) {
			return path
		}
		player, err := assets.LoadAudioPlayer(path, loop)
		if err != nil {
			audioLog.Warn().Err(err).Str("track", path).Msg("track unavailable")
			return ""
		}
		if err := g.engine.Register(path, kind, player, attenuation); err != nil {
			audioLog.Warn().Err(err).Str("track", path).Msg("register track")
			return ""
		}
		return path
	}

	ambient := content.Audio.AmbientVolume
	if ambient <= 0 {
		ambient = g.settings.Audio.Ambient
	}
	g.soundtrack.SetAmbient(register(content.Audio.Ambient, sound.Ambient, true, ambient))
	g.soundtrack.SetCue(register(content.Audio.Cue, sound.Cue, false, content.Audio.CueVolume))

	for _, year := range tl.Years() {
		spec, ok := content.Year(year)
		if !ok {
			continue
		}
		music := register(spec.Music, sound.Foreground, true, 1)
		voice := register(spec.Narration, sound.Voice, false, 1)
		g.soundtrack.Bind(year, music, voice)
	}
}

func (g *Game) start(tl timeline.Timeline, opts Options) {
	if opts.Muted {
		g.engine.Mute()
	}
	g.machine.Begin()
	g.rotation.Apply()

	if opts.StartYear != "" {
		year, err := tl.Parse(opts.StartYear)
		if err != nil {
			g.log.Warn().Err(err).Str("year", opts.StartYear).Msg("ignoring start year")
		} else if _, err := g.machine.RequestTransition(year); err != nil {
			g.log.Warn().Err(err).Msg("start year")
		}
	}

	if g.settings.AutoPlay.Enabled {
		g.autoplay.Start()
	}
	g.log.Info().
		Str("variant", g.settings.Variant).
		Str("content", g.content.Name).
		Bool("autoplay", g.settings.AutoPlay.Enabled).
		Msg("experience started")
}

// Year is the committed year, for log stamping.
func (g *Game) Year() timeline.Year {
	if g == nil || g.machine == nil {
		return 0
	}
	return g.machine.CurrentYear()
}

func (g *Game) Update() (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.fail(fmt.Errorf("panic: %v", r), debug.Stack())
			err = nil
		}
	}()

	g.clock.Advance(clock.FrameInterval)
	g.console.Drain()
	g.reloadContent()
	g.systems.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor(g.world))
	g.systems.Draw(g.world, screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		outsideWidth, outsideHeight = baseWidth, baseHeight
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.globe.SetViewport(g.width, g.height)
	}
	return g.width, g.height
}

// Close cancels every timer and releases audio and watchers.
func (g *Game) Close() {
	g.timers().stop()
	g.console.Close()
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Debug().Err(err).Msg("close watcher")
		}
	}
}

func (g *Game) timers() timerOwners {
	return timerOwners{
		machine:  g.machine,
		autoplay: g.autoplay,
		rotation: g.rotation,
		fader:    g.fader,
		narrator: g.narrator,
		engine:   g.engine,
	}
}

// timerOwners is everything that schedules work on the game clock.
type timerOwners struct {
	machine  *scene.Machine
	autoplay *autoplay.Scheduler
	rotation *rotation.Engine
	fader    *transition.Sequencer
	narrator *narration.Narrator
	engine   *sound.Engine
}

// stop leaves the clock with no pending timers. The machine goes first so
// a step released by a later cancel does not start new fades.
func (t timerOwners) stop() {
	t.machine.Cancel()
	t.autoplay.Stop()
	t.rotation.Cancel()
	t.fader.Cancel()
	t.narrator.Cancel()
	t.engine.Close()
}

func (g *Game) fail(err error, stack []byte) {
	g.log.Error().Err(err).Bytes("stack", stack).Msg("frame failed")
	if !g.failed {
		g.failed = true
		g.hud.SetNotice(refreshNotice)
	}
}

func (g *Game) reloadContent() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		g.log.Warn().Err(err).Msg("content watcher")
	default:
	}
	changed := g.watcher.Drain()
	if len(changed) == 0 {
		return
	}

	content, err := scenes.LoadContent(g.contentName)
	if err != nil {
		g.log.Warn().Err(err).Strs("files", changed).Msg("content reload rejected")
		return
	}
	if err := g.stage.Reload(content); err != nil {
		if errors.Is(err, stage.ErrMissingElement) {
			g.log.Warn().Err(err).Msg("content changed shape, restart to apply")
			return
		}
		g.log.Error().Err(err).Msg("content reload")
		return
	}
	g.content = content
	g.hud.SetContent(content)
	g.narrator.Load(content)
	g.hud.UpdateSceneInfo(g.machine.CurrentYear())
	ev := g.log.Info().Strs("files", changed)
	if mod, ok := scenes.ModTime(g.contentName); ok {
		ev = ev.Time("modified", mod)
	}
	ev.Msg("content reloaded")
}

func backgroundColor(w *ecs.World) color.Color {
	if hud, ok := ecs.Singleton(w, component.HUDComponent.Kind()); ok && hud.HighContrast {
		return color.Black
	}
	return colornames.Midnightblue
}

func contentFor(variant string) string {
	if variant == settings.VariantGaze {
		return "gaze"
	}
	return "ocean"
}

func loadFaces() ([3]text.Face, error) {
	var faces [3]text.Face
	for i, size := range []float64{30, 18, 15} {
		f, err := assets.Face(size)
		if err != nil {
			return faces, err
		}
		faces[i] = f
	}
	return faces, nil
}

// rotationApplier copies the orientation onto the scene each tick, after
// the controller has fed the latest pointer movement.
type rotationApplier struct {
	engine *rotation.Engine
}

func (r rotationApplier) Update(w *ecs.World) { r.engine.Apply() }
