package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/db"
	"github.com/jonathan/skillgap/internal/jobs"
)

func newImportRequirementsCmd(root *rootOptions) *cobra.Command {
	var (
		file    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "import-requirements",
		Short: "Load job requirements from a JSON file into the database",
		Long: "Validate a job requirements file and upsert every title into PostgreSQL. " +
			"Existing titles (compared case-insensitively) have their skills replaced.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if file == "" {
				cfg, err := root.loadConfig()
				if err != nil {
					return err
				}
				file = filepath.Join(cfg.DataDir, config.DefaultRequirementsFile)
			}

			store, err := jobs.LoadFileStore(file)
			if err != nil {
				return err
			}

			database, err := root.connectDB(cmd)
			if err != nil {
				return err
			}
			defer database.Close()

			if migrate {
				if _, err := database.Migrate(ctx); err != nil {
					return err
				}
			}

			n, err := db.NewRequirementStore(database).ImportRequirements(ctx, store.Requirements())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d job titles from %s\n", n, file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Job requirements JSON file (default: <data-dir>/"+config.DefaultRequirementsFile+")")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations before importing")
	return cmd
}
