package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/db"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the job requirements store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			database, err := root.connectDB(cmd)
			if err != nil {
				return err
			}
			defer database.Close()

			out := cmd.OutOrStdout()
			if status {
				version, err := database.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema version: %d\n", version)
				return nil
			}

			results, err := database.Migrate(ctx)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "Database is up to date")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "Applied %05d %s\n", r.Version, r.Source)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print the current schema version instead of migrating")
	return cmd
}

// connectDB opens the configured database. A database URL is required.
func (o *rootOptions) connectDB(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	return db.Connect(cmd.Context(), cfg.DatabaseURL)
}
