package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/charts"
	"github.com/ramonehamilton/grimorio/internal/config"
)

var chartFlags struct {
	out  string
	open bool
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a spells-per-school chart from the local database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, err := catalog.NewService(&catalog.ServiceConfig{Repo: store.SpellRepo()})
		if err != nil {
			return err
		}
		counts, err := svc.SchoolCounts(cmd.Context())
		if err != nil {
			return err
		}

		out := chartFlags.out
		if out == "" {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			out = filepath.Join(dir, "schools.html")
		}

		if err := charts.RenderBarChartFile(charts.SchoolPoints(counts), charts.DefaultChartConfig(), out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)

		if chartFlags.open {
			return charts.OpenInBrowser(out)
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().StringVarP(&chartFlags.out, "output", "o", "", "output HTML file (default ~/.grimorio/schools.html)")
	chartCmd.Flags().BoolVar(&chartFlags.open, "open", false, "open the chart in a browser")
}
