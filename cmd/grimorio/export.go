package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/export"
)

var exportFlags struct {
	format    string
	lang      string
	sort      string
	out       string
	pretty    bool
	overwrite bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the localized catalogue from the local database to CSV or JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(exportFlags.format)
		if err != nil {
			return err
		}
		lang, err := catalog.ParseLanguage(exportFlags.lang)
		if err != nil {
			return err
		}

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
		spells, err := svc.All(cmd.Context(), lang, exportFlags.sort)
		if err != nil {
			return err
		}

		if exportFlags.out == "-" {
			return export.ToWriter(cmd.OutOrStdout(), format, spells, exportFlags.pretty)
		}

		out := exportFlags.out
		if out == "" {
			out = export.GenerateFilename(lang, format, time.Now())
		}
		err = export.NewExporter(export.Options{
			Format:     format,
			FilePath:   out,
			PrettyJSON: exportFlags.pretty,
			Overwrite:  exportFlags.overwrite,
		}).Export(spells)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d spells to %s\n", len(spells), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "csv", "output format (csv or json)")
	exportCmd.Flags().StringVar(&exportFlags.lang, "lang", "pt", "catalogue language (pt or en)")
	exportCmd.Flags().StringVar(&exportFlags.sort, "sort", "", "sort key (id, nome or custo)")
	exportCmd.Flags().StringVarP(&exportFlags.out, "output", "o", "", "output file, or - for stdout (default spells_<lang>_<time>.<format>)")
	exportCmd.Flags().BoolVar(&exportFlags.pretty, "pretty", false, "indent JSON output")
	exportCmd.Flags().BoolVar(&exportFlags.overwrite, "overwrite", false, "replace an existing output file")
}
