package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued changes against the hosted service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			ctx := cmd.Context()

			// Force a fresh probe; a sync attempt should not trust a
			// cached "offline" verdict from seconds ago.
			if !app.Monitor.Refresh(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "still offline, queued changes kept")
				return nil
			}

			report, err := app.Runner.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d, failed %d\n", report.Replayed, report.Failed)
			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "  entry %d (%s %s): %v\n", f.EntryID, f.Operation, f.StoreName, f.Err)
			}
			return nil
		},
	}
}
