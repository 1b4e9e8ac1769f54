package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/handiism/socrata-downloader/internal/activity"
	"github.com/handiism/socrata-downloader/internal/download"
)

// errRunFailures is returned when the run completed but some downloads
// failed. The summary has already been printed.
var errRunFailures = errors.New("some downloads failed")

const rootDesc = `Download every dataset and file of a Socrata open-data site.

The catalog of the domain is fetched from /api/views/metadata/v1. Datasets
are exported as CSV, uploaded files are downloaded as is, and every other
asset type is skipped. Each step is recorded in the activity log.
`

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		flags   settingsFlags
		verbose bool
		quiet   bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:           "socrata-dl",
		Short:         "download the assets of a Socrata open-data site",
		Long:          rootDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd.Flags())
			if err != nil {
				return err
			}

			if dryRun {
				settings.SaveCatalogSnapshot = false
			}

			var console io.Writer = errOut
			if quiet {
				console = nil
			}
			logger, err := activity.Open(settings.LogPath(), console)
			if err != nil {
				return err
			}
			defer logger.Close()

			manager := download.NewManager(settings, logger, progressPrinter(out, verbose))

			fmt.Fprintf(out, "Socrata Downloader: %s\n\n", settings.ToEndpoints().CatalogURL())
			if err := manager.Initialize(cmd.Context()); err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintln(out, "\n[Dry run - not downloading]")
				return writePlan(out, manager.Plan())
			}

			summary, err := manager.StartDownloads(cmd.Context())
			if summary != nil {
				fmt.Fprintln(out)
				if werr := writeSummary(out, summary, settings.LogPath()); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return errRunFailures
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	flags.addFlags(f)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show every step of the run")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not mirror the activity log on stderr")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch the catalog and show the plan without downloading or saving a snapshot")

	cmd.AddCommand(newCatalogCmd(out, &flags))

	return cmd
}

func progressPrinter(out io.Writer, verbose bool) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "ERROR "
		case download.LevelWarning:
			prefix = "WARN  "
		case download.LevelSuccess:
			prefix = "OK    "
		case download.LevelInfo:
			prefix = "INFO  "
		default:
			prefix = "      "
		}

		fmt.Fprintln(out, prefix+event.Message)
	}
}

func writePlan(out io.Writer, plan *download.Plan) error {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "KIND", "NAME", "DESTINATION")
	for _, task := range plan.Tasks {
		table.AddRow(task.Asset.ID, task.Asset.Kind, task.Asset.Label(), filepath.Base(task.Path))
	}
	for _, asset := range plan.Skipped {
		table.AddRow(asset.ID, asset.Kind, asset.Label(), "-")
	}
	_, err := fmt.Fprintln(out, table)
	return err
}

func writeSummary(out io.Writer, summary *download.Summary, logPath string) error {
	table := uitable.New()
	table.AddRow("Succeeded:", summary.Succeeded)
	table.AddRow("Failed:", summary.Failed)
	table.AddRow("Skipped:", summary.Skipped)
	table.AddRow("Downloaded:", fmt.Sprintf("%.2f MB", float64(summary.BytesWritten)/1024/1024))
	table.AddRow("Duration:", summary.Duration.Round(time.Millisecond))
	table.AddRow("Log:", logPath)
	if _, err := fmt.Fprintln(out, table); err != nil {
		return err
	}

	if len(summary.Failures) == 0 {
		return nil
	}

	failures := uitable.New()
	failures.MaxColWidth = 80
	failures.Wrap = true
	failures.AddRow("FAILED", "ERROR")
	for _, r := range summary.Failures {
		failures.AddRow(r.ID, r.Err)
	}
	_, err := fmt.Fprintf(out, "\n%s\n", failures)
	return err
}
