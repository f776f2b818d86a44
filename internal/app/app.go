package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/nixtop/internal/config"
	"github.com/five82/nixtop/internal/logging"
	"github.com/five82/nixtop/internal/nixps"
	"github.com/five82/nixtop/internal/poller"
	"github.com/five82/nixtop/internal/prefs"
	"github.com/five82/nixtop/internal/state"
	"github.com/five82/nixtop/internal/ui"
)

// Options configure the nixtop application. Zero values mean "not given on
// the command line" and defer to prefs and the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/nixtop/prefs.toml
	Interval   time.Duration // zero uses prefs, then config
	Layout     string        // "horizontal" or "vertical"; empty uses prefs
	LogFile    string
	LogLevel   string
	Version    string
}

// settings are the effective values after merging flags, prefs and config.
type settings struct {
	interval time.Duration
	layout   state.Layout
	logFile  string
	logLevel string
}

// resolve applies flag > prefs > config precedence.
func resolve(opts Options, cfg config.Config, p prefs.Prefs) settings {
	s := settings{
		interval: cfg.Interval,
		layout:   state.ParseLayout(p.Layout),
		logFile:  cfg.LogFile,
		logLevel: cfg.LogLevel,
	}
	if d := p.Interval(); d > 0 {
		s.interval = d
	}
	if opts.Interval > 0 {
		s.interval = opts.Interval
	}
	s.interval = state.ClampInterval(s.interval)

	if opts.Layout != "" {
		s.layout = state.ParseLayout(opts.Layout)
	}
	if opts.LogFile != "" {
		s.logFile = opts.LogFile
	}
	if opts.LogLevel != "" {
		s.logLevel = opts.LogLevel
	}
	return s
}

// Run boots the nixtop TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	s := resolve(opts, cfg, userPrefs)

	logger, closer, err := logging.Configure(s.logFile, s.logLevel)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	// Cancelling on return unblocks any refresh cycle still in flight.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := nixps.NewClient(cfg.Command, cfg.Args)
	logger.Info("starting",
		"version", opts.Version,
		"command", client.String(),
		"interval", s.interval,
		"layout", s.layout,
	)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Scheduler: poller.New(client),
		Interval:  s.interval,
		Layout:    s.layout,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		Source:    client.String(),
	})
	if err != nil {
		logger.Error("ui exited", "err", err)
		return err
	}
	logger.Info("stopped")
	return nil
}
