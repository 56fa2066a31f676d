package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/catalog"
	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/jobs"
	"github.com/jonathan/skillgap/internal/skills"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the data files exist and are well formed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			cfg.ResolvePaths()
			if err := cfg.VerifyPaths(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			aliases, err := skills.LoadAliases(cfg.AliasesPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Skill aliases:    %s (%d aliases, %d skills)\n", cfg.AliasesPath, aliases.Len(), len(aliases.Skills()))

			courses, err := catalog.Load(ctx, cfg.CatalogSource, catalog.Options{
				SFTP: catalog.SFTPOptions{
					Password:       os.Getenv("SFTP_PASSWORD"),
					KnownHostsPath: os.Getenv("SFTP_KNOWN_HOSTS"),
				},
				Logger: root.log(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Course catalog:   %s (%d courses, %d skills)\n", cfg.CatalogSource, courses.Len(), len(courses.Skills()))

			if cfg.DatabaseURL != "" {
				fmt.Fprintln(out, "Job requirements: database")
			} else {
				store, err := jobs.LoadFileStore(cfg.RequirementsPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Job requirements: %s (%d titles)\n", cfg.RequirementsPath, len(store.Requirements()))
			}

			fmt.Fprintf(out, "Embedding:        %s\n", describeEmbedding(cfg))
			return nil
		},
	}
}

func describeEmbedding(cfg *config.Config) string {
	s := cfg.Embedding.Provider
	if cfg.Embedding.Model != "" {
		s += " (" + cfg.Embedding.Model + ")"
	}
	if cfg.Embedding.Cache != "" && cfg.Embedding.Cache != config.CacheNone {
		s += ", " + cfg.Embedding.Cache + " cache"
	}
	return s
}
