package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAgentCmd(flags *globalFlags) *cobra.Command {
	var (
		query string
		k     int
	)

	cmd := &cobra.Command{
		Use:   "agent [query]",
		Short: "Run one recommendation: planner, vector search, synthesizer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.connect(ctx); err != nil {
				return err
			}
			svc, err := a.buildPipeline(ctx)
			if err != nil {
				return err
			}

			return runAgent(ctx, cmd, svc, a.cfg.Debug, query, k, a.logger)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "hotel request; defaults to search.query from config")
	cmd.Flags().IntVarP(&k, "nearest-neighbors", "k", 0, "number of hotels to retrieve (1-20); defaults to search.nearest_neighbors")
	return cmd
}

func runAgent(ctx context.Context, cmd *cobra.Command, svc pipelineRunner, debug bool, query string, k int, logger *zap.Logger) error {
	ans, err := svc.Run(ctx, query, k)
	if err != nil {
		if isCancelled(err) {
			logger.Info("Run cancelled")
		}
		return err
	}

	out := cmd.OutOrStdout()
	if debug {
		fmt.Fprintf(out, "--- PLANNER (search query: %q, k=%d) ---\n%s\n\n", ans.SearchQuery, ans.K, ans.ToolOutput)
		fmt.Fprintln(out, "--- FINAL ANSWER ---")
	}
	fmt.Fprintln(out, ans.FinalAnswer)
	return nil
}
