package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/application/startup"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/database"
	leadrepo "github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/lead"
	"github.com/spf13/cobra"
)

func newLeadsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List the most recent form submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := startup.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Close()

			db, err := database.OpenLedger(logger)
			if err != nil {
				return fmt.Errorf("failed to open lead ledger: %w", err)
			}
			defer db.Close()

			submissions, err := leadrepo.NewSQLLeadRepository(db, logger).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tKIND\tEMAIL\tCAMPAIGN\tDELIVERED")
			for _, s := range submissions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
					s.CreatedAt.Local().Format(time.DateTime), s.Kind, logging.MaskEmail(s.Email), s.CampaignTag, s.Delivered())
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of submissions to show")
	return cmd
}
