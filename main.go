package main

import (
	"flag"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/timemachine/logging"
	"github.com/milk9111/timemachine/settings"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the stdin console")
	configFile := flag.String("config", "", "settings file (default ./timemachine.yaml when present)")
	variant := flag.String("variant", "", "desktop or gaze, overrides settings")
	startYear := flag.String("year", "", "year to travel to on launch")
	muted := flag.Bool("m", false, "start muted")
	logFile := flag.String("logfile", "", "also write plain log lines to this file")
	flag.Parse()

	boot := logging.New(os.Stderr, logging.Options{Level: "info", Pretty: true})

	if *variant != "" {
		viper.Set("variant", strings.ToLower(*variant))
	}
	cfg, err := settings.Load(*configFile)
	if err != nil {
		boot.Fatal().Err(err).Msg("load settings")
	}

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}

	opts := logging.Options{Level: level, Pretty: *debug}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			boot.Fatal().Err(err).Str("path", *logFile).Msg("open log file")
		}
		defer f.Close()
		opts.File = f
	}

	var game *Game
	opts.Year = func() string {
		if y := game.Year(); y != 0 {
			return y.String()
		}
		return ""
	}
	logger := logging.New(os.Stderr, opts)

	game, err = NewGame(Options{
		Settings:  cfg,
		Debug:     *debug,
		StartYear: *startYear,
		Muted:     *muted,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("start experience")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("Ocean Time Machine")

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("run")
		os.Exit(1)
	}
}
