package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rapport-app/rapport/internal/models"
)

func newKeystonesCmd(appOf func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keystones",
		Short:   "Manage keystones (important dates tied to contacts)",
		Aliases: []string{"keystone"},
	}
	cmd.AddCommand(newKeystonesListCmd(appOf), newKeystonesAddCmd(appOf), newKeystonesRmCmd(appOf))
	return cmd
}

func newKeystonesListCmd(appOf func() *App) *cobra.Command {
	var contactID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keystones",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			keystones, err := app.Keystones.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCONTACT\tTITLE\tDATE\tRECURRING")
			for _, k := range keystones {
				if contactID != "" && k.ContactID != contactID {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", k.ID, k.ContactID, k.Title, k.Date, k.Recurring)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&contactID, "contact", "", "only keystones for this contact id")
	return cmd
}

func newKeystonesAddCmd(appOf func() *App) *cobra.Command {
	var k models.Keystone
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a keystone",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			created, err := app.Keystones.Create(cmd.Context(), &k)
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "created %q (%s)\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&k.ContactID, "contact", "", "contact id (required)")
	cmd.Flags().StringVar(&k.Title, "title", "", "title (required)")
	cmd.Flags().StringVar(&k.Date, "date", "", "date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&k.Recurring, "recurring", false, "repeats every year")
	cmd.Flags().StringVar(&k.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("contact")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newKeystonesRmCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a keystone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			if err := app.Keystones.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
