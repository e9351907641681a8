// riskctl runs the household risk engine offline against a JSON snapshot.
//
// Usage:
//
//	riskctl metrics  -f household.json
//	riskctl context  -f household.json [--scorer-url=http://localhost:8000]
//	riskctl simulate -f household.json --member=<id> [--shock=job_loss] [--member=<id> ...]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	file      string
	scorerURL string
	logMode   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Household fragility analysis over a JSON snapshot",
		Long:          "riskctl computes graph metrics, risk contexts and shock simulations for a\nhousehold snapshot file without a graph database.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.file, "file", "f", "", "Household snapshot JSON file (required)")
	pf.StringVar(&flags.scorerURL, "scorer-url", "", "Fragility scorer base URL; the built-in heuristic is used when empty")
	pf.StringVar(&flags.logMode, "log-mode", "test", "Logger mode (development, production, test)")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newMetricsCmd(flags))
	root.AddCommand(newContextCmd(flags))
	root.AddCommand(newSimulateCmd(flags))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
