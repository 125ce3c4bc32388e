package main

import (
	"github.com/spf13/cobra"

	"github.com/ganot/project-registry/internal/config"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	ConfigPath string
	DBPath     string
}

// load resolves configuration, letting --db override the file and env.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.LoadFrom(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.DBPath != "" {
		cfg.DB.Path = o.DBPath
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Project registry with a field-level audit trail",
		Long: `Project registry server and tools.

Projects are written through a smart-update path that only touches
rows whose values changed and records every mutation in the audit log.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file (default $REGISTRY_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the SQLite database (overrides config)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newAuditCommand(opts))

	return cmd
}
