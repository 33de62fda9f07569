package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(appOf func() *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and wipe the local mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			ctx := cmd.Context()

			n, err := app.Queue.Count(ctx, "")
			if err != nil {
				return err
			}
			if n > 0 && !force {
				return fmt.Errorf("%d unsynced changes would be lost, run 'rapport sync' first or pass --force", n)
			}
			if err := app.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out, local data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "discard unsynced changes")
	return cmd
}
