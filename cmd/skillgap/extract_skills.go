package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/observability"
)

func newExtractSkillsCmd(root *rootOptions) *cobra.Command {
	var (
		file    string
		format  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "extract-skills",
		Short: "Extract known skills from a resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := root.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			found, err := svc.ExtractResumeSkills(ctx, file, format)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"file": file, "skills": found})
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintSkills("RESUME SKILLS", found)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Resume file (.pdf, .docx, .txt, .html) (required)")
	cmd.Flags().StringVar(&format, "format", "", "Format extension when the file name has none (e.g. .pdf)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the skills as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
