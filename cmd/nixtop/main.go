package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/nixtop/internal/app"
	"github.com/five82/nixtop/internal/config"
	"github.com/five82/nixtop/internal/prefs"
)

var version = "0.1.0"

var errNotTerminal = errors.New("stdin and stdout must be a terminal")

type runFunc func(ctx context.Context, opts app.Options) error

func newRootCmd(run runFunc, isTerminal func() bool) *cobra.Command {
	var (
		configPath string
		prefsPath  string
		interval   string
		layout     string
		logFile    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "nixtop",
		Short: "Live dashboard for running nix builds",
		Long: `nixtop polls "nix ps --json" and shows every running build in a table,
together with the process tree of the selected build.

Keys: -/+ change the refresh interval, up/down select a build, esc clears
the selection, / filters by name, l toggles the layout, q quits.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				LogFile:    logFile,
				LogLevel:   logLevel,
				Version:    version,
			}

			if cmd.Flags().Changed("interval") {
				d, err := config.ParseInterval(interval)
				if err != nil {
					return fmt.Errorf("--interval: %w", err)
				}
				opts.Interval = d
			}

			if cmd.Flags().Changed("layout") {
				switch layout {
				case "horizontal", "vertical":
					opts.Layout = layout
				default:
					return fmt.Errorf("--layout: want horizontal or vertical, got %q", layout)
				}
			}

			if !isTerminal() {
				return errNotTerminal
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&prefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	flags.StringVarP(&interval, "interval", "n", "", "refresh interval, e.g. 5s or 500ms")
	flags.StringVar(&layout, "layout", "", "pane layout: horizontal or vertical")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(app.Run, stdioIsTerminal)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nixtop: %v\n", err)
		return 1
	}
	return 0
}
