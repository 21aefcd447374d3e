package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classpick/classpick/internal/cache"
	"github.com/classpick/classpick/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var prune bool

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Create the durable cache schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "failed to close database: %v\n", closeErr)
				}
			}()

			if _, err := db.ExecContext(cmd.Context(), cache.Schema); err != nil {
				return fmt.Errorf("create cache schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache schema is up to date")

			if prune {
				pruned, err := cache.NewDBTier(db).PruneExpired(cmd.Context())
				if err != nil {
					return fmt.Errorf("prune cache entries: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired cache entries\n", pruned)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&prune, "prune", false, "also delete expired cache entries")
	return command
}
