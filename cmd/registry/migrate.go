package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			a, err := openApp(cfg.DB.Path, nil, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", cfg.DB.Path)
			return nil
		},
	}
}
