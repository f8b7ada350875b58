package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/oliverbestmann/showcase/config"
	"github.com/oliverbestmann/showcase/orion"
)

func main() {
	var level slog.LevelVar

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: &level})
	slog.SetDefault(slog.New(handler))

	var overrides config.Overrides
	overrides.Bind(flag.CommandLine)

	msaa := flag.Bool("msaa", false, "render with 4x multisampling")
	flag.Parse()

	cfg, err := config.Resolve(overrides)
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(2)
	}

	level.Set(cfg.LogLevel)

	opts := orion.RunOptions{
		Config: cfg,
		MSAA:   *msaa,
	}

	if err := orion.Run(opts); err != nil {
		slog.Error("Viewer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
