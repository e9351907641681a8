package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/simulation"
)

type simulateFlags struct {
	members []string
	shock   string
}

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	sf := &simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Apply a shock to one or more members and compare fragility before and after",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(sf.members) == 0 {
				return errors.New("at least one --member is required")
			}
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
			engine, err := simulation.NewEngine(log, sc)
			if err != nil {
				return err
			}

			if len(sf.members) == 1 {
				res, err := engine.Simulate(cmd.Context(), snap, sf.members[0], sf.shock)
				if err != nil {
					return fmt.Errorf("simulate %s: %w", sf.members[0], err)
				}
				return writeJSON(cmd.OutOrStdout(), res)
			}

			scenarios := make([]simulation.Scenario, len(sf.members))
			for i, id := range sf.members {
				scenarios[i] = simulation.Scenario{AffectedMember: id, ShockType: sf.shock}
			}
			results, err := engine.SimulateBatch(cmd.Context(), snap, scenarios)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&sf.members, "member", "m", nil, "Affected member id (repeatable)")
	f.StringVar(&sf.shock, "shock", "", "Shock type: job_loss, freelance_shock, rental_vacancy, member_exit (default member_loss)")
	return cmd
}
