package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the viewer's configuration file.
type Config struct {
	Scene        string   `toml:"scene"`
	Watch        bool     `toml:"watch"`
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	Frames       int      `toml:"frames"`
	Interval     Duration `toml:"interval"`
	Bloom        bool     `toml:"bloom"`
	PostProcess  bool     `toml:"post_process"`
	CompactRatio float64  `toml:"compact_ratio"`
	LogLevel     string   `toml:"log_level"`
}

// Duration is a time.Duration written as a string such as "16ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func defaultConfig() Config {
	return Config{
		Scene:        "scene.json",
		Width:        1280,
		Height:       720,
		Interval:     Duration{16 * time.Millisecond},
		CompactRatio: 0.25,
		LogLevel:     "info",
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// when the path was not set explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: viewport %dx%d must be positive", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative")
	}
	if c.Interval.Duration <= 0 {
		return fmt.Errorf("config: interval must be positive")
	}
	if c.CompactRatio < 0 || c.CompactRatio > 1 {
		return fmt.Errorf("config: compact_ratio %v must be within [0, 1]", c.CompactRatio)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

// parseArgs loads the config named by -config and applies any flags that
// were set on the command line on top of it.
func parseArgs(args []string) (Config, error) {
	flags := flag.NewFlagSet("scene-viewer", flag.ContinueOnError)
	configPath := flags.String("config", "scene-viewer.toml", "Path to the TOML config file.")
	scenePath := flags.String("scene", "", "Scene file to load (.json, .yaml, .yml).")
	watch := flags.Bool("watch", false, "Reload the scene when its file changes.")
	width := flags.Int("width", 0, "Viewport width.")
	height := flags.Int("height", 0, "Viewport height.")
	frames := flags.Int("frames", 0, "Frames to run; 0 runs until interrupted.")
	interval := flags.Duration("interval", 0, "Time between frames.")
	bloom := flags.Bool("bloom", false, "Enable the bloom pass.")
	postProcess := flags.Bool("post-process", false, "Enable the post-process pass.")
	compactRatio := flags.Float64("compact-ratio", 0, "Tombstone ratio that triggers ShrinkToFit.")
	logLevel := flags.String("log-level", "", "Log level (debug, info, warn, error).")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configPath, set["config"])
	if err != nil {
		return cfg, err
	}

	if set["scene"] {
		cfg.Scene = *scenePath
	}
	if flags.NArg() > 0 {
		cfg.Scene = flags.Arg(0)
	}
	if set["watch"] {
		cfg.Watch = *watch
	}
	if set["width"] {
		cfg.Width = *width
	}
	if set["height"] {
		cfg.Height = *height
	}
	if set["frames"] {
		cfg.Frames = *frames
	}
	if set["interval"] {
		cfg.Interval = Duration{*interval}
	}
	if set["bloom"] {
		cfg.Bloom = *bloom
	}
	if set["post-process"] {
		cfg.PostProcess = *postProcess
	}
	if set["compact-ratio"] {
		cfg.CompactRatio = *compactRatio
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.validate()
}
