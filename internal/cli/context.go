// Package cli provides the command-line layer for treestage: it wires
// configuration, output and the staging engine together, applies the
// safety guard and optional destination lock, and drives profile runs
// and the interactive menu.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/zoro11031/treestage/internal/config"
	"github.com/zoro11031/treestage/internal/logging"
	"github.com/zoro11031/treestage/internal/stage"
	"github.com/zoro11031/treestage/internal/system"
	"github.com/zoro11031/treestage/internal/ui"
)

// Options controls how a StageContext is built
type Options struct {
	// ConfigPath overrides the default config file location
	ConfigPath string
	// LogLevel overrides the configured log level when set
	LogLevel string
	// NonInteractive disables prompts; also enabled by the non_interactive setting
	NonInteractive bool
	// Output receives user-facing output and diagnostics (default os.Stderr)
	Output io.Writer
	// Fs replaces the OS filesystem for staging (tests)
	Fs afero.Fs
}

// StageContext holds all dependencies needed for staging operations
type StageContext struct {
	Config  *config.Config
	UI      *ui.UI
	Logger  zerolog.Logger
	FS      *system.FileSystem
	Stager  *stage.Stager
	Markers *config.Markers
}

// NewStageContext creates a new StageContext with all dependencies initialized
func NewStageContext(opts Options) (*StageContext, error) {
	cfg := config.New(opts.ConfigPath)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.GetOrDefault(config.KeyLogLevel, logging.DefaultLevel)
	}
	logger, err := logging.New(out, level)
	if err != nil {
		return nil, err
	}

	uiInstance := ui.NewWithWriter(out)
	uiInstance.SetNonInteractive(opts.NonInteractive || cfg.GetBool(config.KeyNonInteractive))

	var fs *system.FileSystem
	if opts.Fs != nil {
		fs = system.NewFileSystemWithFs(opts.Fs, logger)
	} else {
		fs = system.NewFileSystem(logger)
	}

	return &StageContext{
		Config:  cfg,
		UI:      uiInstance,
		Logger:  logger,
		FS:      fs,
		Stager:  stage.New(fs, logger),
		Markers: config.NewMarkers(cfg.MarkerDir()),
	}, nil
}
