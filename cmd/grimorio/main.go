// Package main is the grimorio command: spell API server, seed importer and
// terminal and desktop spell browsers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "grimorio",
	Short: "Bilingual spell catalogue browser",
	Long: `Grimório serves a bilingual (pt/en) spell catalogue over HTTP and browses
it from the terminal or a desktop window.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.grimorio/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(desktopCmd)
	rootCmd.AddCommand(hashTokenCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(versionCmd)
}
