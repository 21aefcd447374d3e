package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classpick/classpick/internal/cli"
)

func newRecommendCommand() *cobra.Command {
	var term string
	var prefsFile string

	command := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend a conflict-free schedule for a term",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := cli.PreferencesFromFile(prefsFile)
			if err != nil {
				return err
			}

			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := c.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "failed to close resources: %v\n", closeErr)
				}
			}()

			recommender := cli.NewRecommender(c.orchestrator, c.engine, cmd.OutOrStdout(),
				cli.WithRegistrationBase(c.cfg.Catalog.BaseURL))
			return recommender.Run(cmd.Context(), term, prefs)
		},
	}
	command.Flags().StringVar(&term, "term", "", "term code, e.g. 202508")
	command.Flags().StringVar(&prefsFile, "prefs", "", "preferences YAML file")
	_ = command.MarkFlagRequired("term")
	_ = command.MarkFlagRequired("prefs")

	return command
}
