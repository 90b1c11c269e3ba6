package main

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "health",
		Short: "Check server liveness, or readiness with --ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)

			path := "/health"
			if mustGetBool(cmd, "ready") {
				path = "/readiness"
			}
			resp, err := client.Get(path)
			var httpErr *HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusServiceUnavailable {
				return errors.New("server is not ready: " + httpErr.Message)
			}
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, resp)
		},
	}
	c.Flags().Bool("ready", false, "query /readiness instead of /health")
	return c
}
