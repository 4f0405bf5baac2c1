package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/auth"
)

var saveToken bool

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token [token]",
	Short: "Hash an admin token for admin.token_hash",
	Long: `Hash an admin token with argon2id. Without an argument a random token is
generated and printed once. With --save the hash is written to the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		token := ""
		if len(args) == 1 {
			token = args[0]
		} else {
			generated, err := auth.GenerateToken()
			if err != nil {
				return err
			}
			token = generated
			fmt.Fprintf(out, "Token: %s\n", token)
		}

		hash, err := auth.HashToken(token, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Hash:  %s\n", hash)

		if !saveToken {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Admin.TokenHash = hash
		if configPath != "" {
			err = cfg.SaveTo(configPath)
		} else {
			err = cfg.Save()
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Saved to config.")
		return nil
	},
}

func init() {
	hashTokenCmd.Flags().BoolVar(&saveToken, "save", false, "store the hash in the config file")
}
