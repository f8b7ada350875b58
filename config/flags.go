package config

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/showcase/viewer"
)

// Overrides are command line values replacing those of the configuration.
// Empty values leave the configuration unchanged.
type Overrides struct {
	ConfigFile string
	Model      string
	Assets     string
	Mode       string
	LogLevel   string
	Profile    bool
}

func (o *Overrides) Bind(flags *flag.FlagSet) {
	flags.StringVar(&o.ConfigFile, "config", "", "yaml configuration file")
	flags.StringVar(&o.Model, "model", "", "model directory below the asset root")
	flags.StringVar(&o.Assets, "assets", "", "asset root, a directory or an http(s) url")
	flags.StringVar(&o.Mode, "mode", "", "presentation mode, free or orbit")
	flags.StringVar(&o.LogLevel, "log-level", "", "log level, debug, info, warn or error")
	flags.BoolVar(&o.Profile, "profile", false, "write a cpu profile")
}

// Resolve builds the configuration from the optional configuration file,
// the preset of the selected model and the overrides.
func Resolve(o Overrides) (Config, error) {
	cfg := Preset(o.Model)

	if o.ConfigFile != "" {
		var err error
		if cfg, err = Load(o.ConfigFile); err != nil {
			return Config{}, err
		}

		if o.Model != "" {
			cfg.Model = o.Model
		}
	}

	if o.Assets != "" {
		cfg.Assets = o.Assets
	}

	if o.Mode != "" {
		mode, err := viewer.ParseMode(o.Mode)
		if err != nil {
			return Config{}, err
		}

		cfg.Mode = mode
	}

	if o.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(o.LogLevel)); err != nil {
			return Config{}, fmt.Errorf("parse log level: %w", err)
		}
	}

	if o.Profile {
		cfg.Profile = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	slog.Debug("Configuration resolved",
		slog.String("model", cfg.Model),
		slog.String("assets", cfg.Assets),
		slog.String("mode", cfg.Mode.String()),
	)

	return cfg, nil
}
