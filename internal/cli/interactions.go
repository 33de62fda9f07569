package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rapport-app/rapport/internal/models"
)

func newInteractionsCmd(appOf func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactions",
		Short:   "Manage logged interactions",
		Aliases: []string{"interaction", "log"},
	}
	cmd.AddCommand(newInteractionsListCmd(appOf), newInteractionsAddCmd(appOf), newInteractionsRmCmd(appOf))
	return cmd
}

func newInteractionsListCmd(appOf func() *App) *cobra.Command {
	var contactID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			interactions, err := app.Interactions.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCONTACT\tKIND\tWHEN\tSUMMARY")
			for _, in := range interactions {
				if contactID != "" && in.ContactID != contactID {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", in.ID, in.ContactID, in.Kind, in.OccurredAt, in.Summary)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&contactID, "contact", "", "only interactions for this contact id")
	return cmd
}

func newInteractionsAddCmd(appOf func() *App) *cobra.Command {
	var in models.Interaction
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an interaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			created, err := app.Interactions.Create(cmd.Context(), &in)
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "logged %s (%s)\n", created.Kind, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ContactID, "contact", "", "contact id (required)")
	cmd.Flags().StringVar(&in.Kind, "kind", "", "kind of touchpoint: call, meeting, message")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "what happened")
	cmd.Flags().StringVar(&in.OccurredAt, "when", "", "when it happened, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

func newInteractionsRmCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			if err := app.Interactions.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
