package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/gui"
	"github.com/ramonehamilton/grimorio/internal/tui"
)

var browseFlags struct {
	apiURL string
	lang   string
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse spells in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctrl, err := newController(cfg, browseFlags.apiURL, browseFlags.lang)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		opts := tui.Options{}
		if cfg.App.DebugMode {
			opts.DebugLog = cfg.App.LogFile
		}
		return tui.Run(ctx, ctrl, opts)
	},
}

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Browse spells in a desktop window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctrl, err := newController(cfg, browseFlags.apiURL, browseFlags.lang)
		if err != nil {
			return err
		}

		gui.NewApp(context.Background(), ctrl).Run()
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{browseCmd, desktopCmd} {
		c.Flags().StringVar(&browseFlags.apiURL, "api", "", "spell API base URL (default from config)")
		c.Flags().StringVar(&browseFlags.lang, "lang", "", "initial language, pt or en (default from config)")
	}
}
