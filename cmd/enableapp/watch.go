package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmc/enableapp"
	"github.com/tmc/enableapp/internal/logging"
	"github.com/tmc/enableapp/internal/tui"
	"github.com/tmc/enableapp/internal/watch"
)

type watchOptions struct {
	tui      bool
	existing bool
}

func newWatchCommand(a *app) *cobra.Command {
	var opts watchOptions
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Clear attributes from every item dropped into a folder",
		Long: `Watch turns DIR into a drop target. Every file or bundle that appears
directly inside it is cleared once it stops changing, and its result is
printed as soon as it is known. Press Ctrl-C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live list instead of printing lines")
	cmd.Flags().BoolVar(&opts.existing, "existing", false, "also process items already in the folder")
	return cmd
}

func (a *app) watch(ctx context.Context, dir string, opts watchOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.tui && a.cfg.LogFile == "" {
		// Console logs would tear the full-screen view.
		a.logger, _ = logging.New(io.Discard, a.cfg.Logging())
	}

	var prog *tea.Program
	hook := func(e enableapp.ResultEntry) {
		fmt.Fprintln(a.stdout, enableapp.FormatEntry(e))
	}
	if opts.tui {
		hook = func(e enableapp.ResultEntry) {
			prog.Send(tui.EntryMsg(e))
		}
	}

	p := a.pipeline()
	c := enableapp.NewCoordinator(p,
		enableapp.WithCoordinatorLogger(a.logger),
		enableapp.WithResultHook(hook),
	)

	submit := a.dropHandler(ctx, c, func(path string) {
		if prog != nil {
			prog.Send(tui.SubmittedMsg{Path: path})
		}
	})

	wopts := []watch.Option{watch.WithLogger(a.logger)}
	if opts.existing {
		wopts = append(wopts, watch.WithExisting())
	}
	w := watch.New(dir, submit, wopts...)

	if opts.tui {
		prog = tea.NewProgram(tui.New(w.Dir(), p.Log()), tea.WithContext(ctx))
	}

	g, gctx := errgroup.WithContext(ctx)
	if prog == nil {
		g.Go(func() error {
			select {
			case <-w.Ready():
				fmt.Fprintf(a.stderr, "Watching %s for dropped items (Ctrl-C to stop)\n", w.Dir())
			case <-gctx.Done():
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := c.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := w.Run(gctx)
		if err != nil {
			err = &enableapp.Error{Op: "watch folder", Err: err, Help: "DIR must be an existing directory"}
			if prog != nil {
				prog.Send(tui.ErrMsg{Err: err})
			}
		}
		return err
	})
	if prog != nil {
		g.Go(func() error {
			defer cancel()
			if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if !opts.tui {
		fmt.Fprintf(a.stderr, "Processed %d of %d item(s), %d failed\n", p.Log().Len(), c.Submitted(), p.Log().Failed())
	}
	return err
}

// dropHandler returns the watcher's submit function. accepted runs only for
// paths the coordinator took, so a pending count driven by it always drains.
func (a *app) dropHandler(ctx context.Context, c *enableapp.Coordinator, accepted func(path string)) func(string) {
	return func(path string) {
		if err := c.Submit(ctx, path); err != nil {
			a.logger.Warn("drop ignored", "path", path, "error", err)
			return
		}
		accepted(path)
	}
}
