package main

import (
	"fmt"

	"seat-queue/internal/infra/db"
	"seat-queue/internal/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDBConfig()
			if err != nil {
				return err
			}

			pool, cleanup, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := db.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Changed() {
				fmt.Fprintf(out, "Schema is up to date (version %d)\n", result.To)
				return nil
			}
			fmt.Fprintf(out, "Migrated schema from version %d to %d\n", result.From, result.To)
			return nil
		},
	}
}
