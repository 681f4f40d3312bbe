package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCleanupCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop the configured database (irreversible)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if !yes {
				return fmt.Errorf("refusing to drop database %q without --yes", a.cfg.Database.Name)
			}

			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			if err := a.hotel.DropDatabase(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("Database dropped", zap.String("database", a.cfg.Database.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "dropped database %s\n", a.cfg.Database.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm dropping the database")
	return cmd
}
