package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/observability"
	"github.com/jonathan/skillgap/internal/skills"
)

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var (
		job     string
		current []string
		resume  string
		format  string
		topN    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compare skills with a job title and recommend courses",
		Long: "Look up the skills required for --job, compare them with the skills given by " +
			"--skills and/or extracted from --resume, and recommend courses for the missing ones.",
		Example: `  skillgap recommend --job "Data Scientist" --skills python,sql
  skillgap recommend --job "Backend Engineer" --resume cv.pdf --top-n 3 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := root.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			all := append([]string(nil), current...)
			if resume != "" {
				found, err := svc.ExtractResumeSkills(ctx, resume, format)
				if err != nil {
					return fmt.Errorf("failed to read resume: %w", err)
				}
				all = append(all, found...)
			}

			analysis, err := svc.Analyze(ctx, job, skills.Unique(all), topN)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(analysis)
			return nil
		},
	}

	cmd.Flags().StringVarP(&job, "job", "j", "", "Target job title (required)")
	cmd.Flags().StringSliceVarP(&current, "skills", "s", nil, "Comma-separated skills you already have")
	cmd.Flags().StringVarP(&resume, "resume", "r", "", "Resume file to extract skills from (.pdf, .docx, .txt, .html)")
	cmd.Flags().StringVar(&format, "format", "", "Resume format extension when the file name has none (e.g. .pdf)")
	cmd.Flags().IntVarP(&topN, "top-n", "n", 0, "Number of courses to recommend (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the analysis as JSON")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
