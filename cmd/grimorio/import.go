package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import [seed.json]",
	Short: "Replace the catalogue with a seed file",
	Long:  `Validate a seed file and replace the stored catalogue with it. Without an argument the configured seed (or the embedded one) is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		seedPath := cfg.Catalog.SeedPath
		if len(args) == 1 {
			seedPath = args[0]
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := catalog.NewImporter(store).ImportFile(cmd.Context(), seedPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d spells from %s\nRun:         %s\nFingerprint: %s\n",
			result.Count, result.Source, result.RunID, result.Fingerprint)
		return nil
	},
}
