package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/config"
	"github.com/ramonehamilton/grimorio/internal/storage"
)

var backupFlags struct {
	dir  string
	name string
	list bool
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the local database, or list existing snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dir := backupFlags.dir
		if dir == "" {
			home, err := config.Dir()
			if err != nil {
				return err
			}
			dir = filepath.Join(home, "backups")
		}

		out := cmd.OutOrStdout()
		if backupFlags.list {
			backups, err := storage.ListBackups(dir)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintf(out, "No backups in %s\n", dir)
				return nil
			}
			for _, b := range backups {
				fmt.Fprintf(out, "%s  %8d bytes  %s  %.12s\n", b.ModTime.Format("2006-01-02 15:04:05"), b.Size, b.Name, b.Checksum)
			}
			return nil
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		path, err := store.Backup(cmd.Context(), dir, backupFlags.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Backup written to %s\n", path)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupFlags.dir, "dir", "", "backup directory (default ~/.grimorio/backups)")
	backupCmd.Flags().StringVar(&backupFlags.name, "name", "", "backup file name (default grimorio_<time>.db)")
	backupCmd.Flags().BoolVar(&backupFlags.list, "list", false, "list backups instead of creating one")
}
