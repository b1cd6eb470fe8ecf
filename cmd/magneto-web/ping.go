package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/application/startup"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/cms"
	"github.com/magnetomarketing/magneto-web/pkg/config"
	"github.com/spf13/cobra"
)

type pingResult struct {
	OK        bool   `json:"ok"`
	Endpoint  string `json:"endpoint"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

func newPingCMSCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping-cms",
		Short: "Check that the CMS GraphQL endpoint answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := startup.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Close()

			client := cms.NewClient(config.WordPressAPIURL, timeout, logger)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			latency, pingErr := client.Ping(ctx)
			result := pingResult{OK: pingErr == nil, Endpoint: client.Endpoint(), LatencyMs: latency.Milliseconds()}
			if pingErr != nil {
				result.Error = pingErr.Error()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			return pingErr
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", config.CMSTimeout, "request timeout")
	return cmd
}
