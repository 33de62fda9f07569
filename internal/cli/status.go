package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatusCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and per-store pending change counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			ctx := cmd.Context()

			state := "offline"
			if app.Monitor.Refresh(ctx) {
				state = "online"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "service: %s (%s)\n", app.Config.APIBaseURL, state)

			if p, err := app.Profile.Current(ctx); err == nil && p != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", p.DisplayName)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STORE\tPENDING")
			for _, repo := range []interface {
				StoreName() string
			}{app.Contacts, app.Keystones, app.Interactions} {
				n, err := app.Queue.Count(ctx, repo.StoreName())
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\n", repo.StoreName(), n)
			}
			return w.Flush()
		},
	}
}
