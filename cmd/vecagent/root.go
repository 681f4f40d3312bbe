package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecagent/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env   string
	debug bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "vecagent",
		Short: "Hotel recommendations from a planner and a synthesizer agent over DocumentDB vector search",
		Long: `vecagent answers natural-language hotel requests.

A planner model turns the request into one vector search over the hotels
collection, and a synthesizer model compares the best matches and writes
a short recommendation.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.env, "env", "", "config environment (config/<env>.yaml); defaults to $ENV or local")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "debug logging and intermediate output")

	root.AddCommand(
		newAgentCmd(flags),
		newUploadCmd(flags),
		newCleanupCmd(flags),
		newServeCmd(flags),
	)
	return root
}
