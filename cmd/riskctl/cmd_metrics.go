package main

import (
	"github.com/spf13/cobra"

	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/graphmetrics"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/income"
)

func newMetricsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print graph metrics: critical members and dependency chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(flags.file)
			if err != nil {
				return err
			}
			enriched := income.EnrichAll(snap.Members)
			return writeJSON(cmd.OutOrStdout(), graphmetrics.Compute(enriched, snap.Supports))
		},
	}
}
