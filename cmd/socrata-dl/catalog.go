package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/handiism/socrata-downloader/internal/http"
	"github.com/handiism/socrata-downloader/internal/model"
	"github.com/handiism/socrata-downloader/internal/socrata"
)

func newCatalogCmd(out io.Writer, flags *settingsFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "list the assets of the domain and how they would be downloaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateKind(kind); err != nil {
				return err
			}
			settings, err := flags.settings(cmd.Flags())
			if err != nil {
				return err
			}

			endpoints := settings.ToEndpoints()
			client := socrata.NewClient(endpoints, http.NewClient(settings.ToHTTPOptions()))
			catalog, err := client.FetchCatalog(cmd.Context())
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 80
			table.AddRow("ID", "KIND", "TYPE", "NAME", "URL")
			for _, asset := range catalog.Assets {
				if kind != "" && asset.Kind.String() != kind {
					continue
				}
				url, err := endpoints.ExportURL(asset)
				if err != nil {
					url = "-"
				}
				table.AddRow(asset.ID, asset.Kind, asset.TypeHint, asset.Label(), url)
			}
			fmt.Fprintln(out, table)

			if len(catalog.Dropped) > 0 {
				fmt.Fprintf(out, "\n%d catalog entries ignored\n", len(catalog.Dropped))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list assets of this kind: table, blob or unsupported")

	return cmd
}

// validateKind accepts an empty filter or the name of an asset kind.
func validateKind(kind string) error {
	switch kind {
	case "", model.KindTable.String(), model.KindBlob.String(), model.KindUnsupported.String():
		return nil
	}
	return fmt.Errorf("invalid --kind %q: must be %s, %s or %s",
		kind, model.KindTable, model.KindBlob, model.KindUnsupported)
}
