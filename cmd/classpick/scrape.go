package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newScrapeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape external data sources directly",
	}
	command.AddCommand(newScrapeCoursesCommand(), newScrapeProfessorCommand())
	return command
}

func newScrapeCoursesCommand() *cobra.Command {
	var term string
	var subject string

	command := &cobra.Command{
		Use:   "courses",
		Short: "Scrape the course schedule for a term and subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := c.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "failed to close resources: %v\n", closeErr)
				}
			}()

			courses, err := c.orchestrator.Courses(cmd.Context(), term, subject)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(courses)
		},
	}
	command.Flags().StringVar(&term, "term", "", "term code, e.g. 202508")
	command.Flags().StringVar(&subject, "subject", "", "subject code, e.g. CSC")
	_ = command.MarkFlagRequired("term")
	_ = command.MarkFlagRequired("subject")

	return command
}

func newScrapeProfessorCommand() *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:   "professor",
		Short: "Look up a professor's rating profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := c.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "failed to close resources: %v\n", closeErr)
				}
			}()

			record, ok, err := c.orchestrator.Rating(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no confident rating match for %q\n", name)
				return nil
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(record)
		},
	}
	command.Flags().StringVar(&name, "name", "", "instructor name, e.g. \"Jane Doe\"")
	_ = command.MarkFlagRequired("name")

	return command
}
