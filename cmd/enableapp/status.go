package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/tmc/enableapp"
	"github.com/tmc/enableapp/xattr"
)

// statusConcurrency bounds how many paths are scanned at once.
const statusConcurrency = 4

func newStatusCommand(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "status PATH...",
		Short: "Show extended attributes on items without changing them",
		Long: `Status lists the extended attributes found on each PATH and, for
directories such as .app bundles, on everything beneath it. Items carrying
com.apple.quarantine are flagged. With -v, the bundle identifier of each
.app is shown along with every file that carries attributes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := scanAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			out, err := formatReports(reports, a.cfg.Output, verbose)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every file and attribute in table output")
	return cmd
}

// scanAll scans paths concurrently and returns reports in argument order.
func scanAll(ctx context.Context, paths []string) ([]xattr.Report, error) {
	reports := make([]xattr.Report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			rep, err := xattr.Scan(gctx, path)
			if err != nil {
				return fmt.Errorf("scan %s: %w", path, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func formatReports(reports []xattr.Report, format string, verbose bool) (string, error) {
	switch format {
	case enableapp.FormatJSON:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case enableapp.FormatYAML:
		data, err := yaml.Marshal(reports)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case enableapp.FormatTable, "":
		var b strings.Builder
		b.WriteString("Name                         | Files | Attributes | Quarantined\n")
		b.WriteString("-----------------------------|-------|------------|------------\n")
		for _, r := range reports {
			quarantined := "no"
			if r.Quarantined() {
				quarantined = "YES"
			}
			name := enableapp.FitColumn(enableapp.DisplayName(r.Root), enableapp.NameWidth)
			fmt.Fprintf(&b, "%s | %5d | %10d | %s\n", name, r.Scanned, r.Count(), quarantined)
			if verbose {
				if r.BundleID != "" {
					fmt.Fprintf(&b, "    bundle: %s\n", r.BundleID)
				}
				for _, f := range r.Files {
					fmt.Fprintf(&b, "    %s: %s\n", f.Path, strings.Join(f.Names, ", "))
				}
			}
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
