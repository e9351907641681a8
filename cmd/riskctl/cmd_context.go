package main

import (
	"github.com/spf13/cobra"

	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/riskctx"
)

func newContextCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Score the household and print its full risk context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(flags.logMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			snap, err := loadSnapshot(flags.file)
			if err != nil {
				return err
			}
			sc, err := newScorer(log, flags.scorerURL)
			if err != nil {
				return err
			}
			builder, err := riskctx.NewBuilder(log, nil, sc)
			if err != nil {
				return err
			}
			rc, err := builder.BuildFromSnapshot(cmd.Context(), snap.HouseholdID, snap)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rc)
		},
	}
}
