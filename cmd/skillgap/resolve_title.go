package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/observability"
	"github.com/jonathan/skillgap/internal/types"
)

func newResolveTitleCmd(root *rootOptions) *cobra.Command {
	var (
		query   string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "resolve-title",
		Short: "List known job titles similar to a query",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := root.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			matches, err := svc.SimilarTitles(ctx, query)
			if err != nil {
				return err
			}
			if matches == nil {
				matches = []types.TitleMatch{}
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"query": query, "matches": matches})
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintTitleMatches(query, matches)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Job title to look up (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the matches as JSON")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
