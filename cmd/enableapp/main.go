// Command enableapp removes quarantine and other extended attributes from
// macOS application bundles.
//
// Usage:
//
//	enableapp clear /Applications/Foo.app ~/Downloads/Bar.app
//	enableapp watch ~/Desktop/Enable --tui
//	enableapp status /Applications/Foo.app
//
// Each item is cleared with "xattr -cr" and reported as one line in the
// result log, newest first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmc/enableapp"
	"github.com/tmc/enableapp/internal/config"
	"github.com/tmc/enableapp/internal/logging"
)

// errItemsFailed is returned when at least one item could not be cleared.
var errItemsFailed = errors.New("one or more items failed")

// app carries settings and collaborators shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// clearer overrides the xattr command. Only tests set it.
	clearer enableapp.Clearer

	// flags
	format  string
	debug   bool
	logFile string
	timeout time.Duration

	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "enableapp",
		Short: "Remove quarantine attributes from macOS apps",
		Long: `enableapp clears the quarantine and other extended attributes that make
macOS refuse to open downloaded apps ("app is damaged and can't be opened").

Every item is passed to "xattr -cr" and reported as one line in the result
log, most recent first.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.format, "format", "o", "", "output format: table, json, yaml (default from ENABLEAPP_OUTPUT or table)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.logFile, "log-file", "", "also write logs to this rotating file")
	flags.DurationVar(&a.timeout, "timeout", 0, "kill xattr after this long per item (0 waits forever)")

	root.AddCommand(
		newClearCommand(a),
		newWatchCommand(a),
		newStatusCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration, applies flag overrides, and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output = a.format
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return &enableapp.Error{Op: "load config", Err: err, Help: "check ENABLEAPP_* variables and flags"}
	}
	a.cfg = cfg

	a.logger, a.closer = logging.New(a.stderr, cfg.Logging())
	a.logger.Debug("configuration loaded", "output", cfg.Output, "timeout", cfg.Timeout, "log_file", cfg.LogFile)
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// pipeline returns a fresh pipeline configured from the loaded settings.
func (a *app) pipeline() *enableapp.Pipeline {
	return enableapp.NewPipeline(a.clearer,
		enableapp.WithLogger(a.logger),
		enableapp.WithTimeout(a.cfg.Timeout),
	)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(a.stdout, "enableapp %s\n", version)
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	err := newRootCommand(a).ExecuteContext(ctx)
	stop()
	// PersistentPostRunE is skipped when a command fails.
	a.teardown() //nolint:errcheck
	if err != nil {
		if !errors.Is(err, errItemsFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
