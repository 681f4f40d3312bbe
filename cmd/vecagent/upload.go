package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/usecase/ingest"
)

func newUploadCmd(flags *globalFlags) *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Embed the hotel dataset, insert it and create the vector index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if dataFile == "" {
				dataFile = a.cfg.Upload.DataFile
			}
			if dataFile == "" {
				return fmt.Errorf("no data file: set upload.data_file or pass --file")
			}

			sources, err := ingest.LoadHotels(dataFile)
			if err != nil {
				return err
			}
			a.logger.Info("Loaded hotels", zap.String("file", dataFile), zap.Int("count", len(sources)))

			if err := a.connect(ctx); err != nil {
				return err
			}
			svc, err := a.buildIngest(ctx)
			if err != nil {
				return err
			}

			rep, err := svc.Upload(ctx, sources)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loaded=%d embedded=%d skipped=%d inserted=%d failed=%d\n",
				rep.Loaded, rep.Embedded, rep.Skipped, rep.Counts.Inserted, rep.Counts.Failed)
			return err
		},
	}

	cmd.Flags().StringVarP(&dataFile, "file", "f", "", "hotel JSON file; defaults to upload.data_file")
	return cmd
}
