package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/server"
	"github.com/jonathan/skillgap/internal/server/ratelimit"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port      int
		maxUpload int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing recommendations, resume skill extraction, job title lookup and skill normalization.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := root.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			srv := server.New(svc, server.Config{
				Port:           port,
				MaxUploadBytes: maxUpload,
				RateLimit:      ratelimit.LoadConfig(os.Getenv),
				Logger:         root.log(),
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "Maximum resume upload size in bytes")
	return cmd
}
