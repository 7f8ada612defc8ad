package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "config",
		Short:         "Print the resolved configuration",
		Annotations:   map[string]string{"skipConfigLoad": "true"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage.driver = %s\n", orDefault(cfg.Storage.Driver, "memory"))
			fmt.Fprintf(cmd.OutOrStdout(), "storage.dsn    = %s\n", cfg.Storage.DSN)
			fmt.Fprintf(cmd.OutOrStdout(), "broadcast.enabled = %v\n", cfg.Broadcast.Enabled)
			fmt.Fprintf(cmd.OutOrStdout(), "broadcast.url     = %s\n", cfg.Broadcast.URL)
			fmt.Fprintf(cmd.OutOrStdout(), "broadcast.channel = %s\n", cfg.Broadcast.Channel)
			fmt.Fprintf(cmd.OutOrStdout(), "export.dir     = %s\n", cfg.Export.Dir)
			fmt.Fprintf(cmd.OutOrStdout(), "debug.enabled  = %v\n", cfg.Debug.Enabled)
			fmt.Fprintf(cmd.OutOrStdout(), "debug.bind     = %s\n", cfg.Debug.Bind)
			return nil
		},
	}
	return cmd
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
