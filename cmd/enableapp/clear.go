package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmc/enableapp"
)

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clear PATH... | clear -",
		Aliases: []string{"drop"},
		Short:   "Clear extended attributes from one or more items",
		Long: `Clear runs "xattr -cr" on every PATH and prints the result log, most
recent first. Items are processed concurrently; each produces exactly one
entry. Use "-" to read paths from standard input, one per line.

The exit status is 1 if any item failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(args) == 1 && args[0] == "-" {
				var err error
				if paths, err = readPaths(a.stdin); err != nil {
					return fmt.Errorf("read paths: %w", err)
				}
				if len(paths) == 0 {
					return errors.New("no paths on standard input")
				}
			}
			return a.clear(cmd.Context(), paths)
		},
	}
}

// clear processes paths through a coordinator and renders the log.
func (a *app) clear(ctx context.Context, paths []string) error {
	c := enableapp.NewCoordinator(a.pipeline(), enableapp.WithCoordinatorLogger(a.logger))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := new(errgroup.Group)
	g.Go(func() error {
		if err := c.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer c.Close() //nolint:errcheck
		return c.SubmitAll(ctx, paths...)
	})
	err := g.Wait()
	if err != nil {
		return err
	}

	entries := c.Log().Entries()
	out, err := enableapp.FormatEntries(entries, a.cfg.Output)
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, out)

	if failed := c.Log().Failed(); failed > 0 {
		fmt.Fprintf(a.stderr, "%d of %d item(s) failed\n", failed, len(entries))
		return errItemsFailed
	}
	return nil
}

// readPaths reads one path per line, skipping blank lines.
func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, sc.Err()
}
