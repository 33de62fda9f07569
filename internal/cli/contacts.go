package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rapport-app/rapport/internal/models"
)

func newContactsCmd(appOf func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Short:   "Manage contacts",
		Aliases: []string{"contact"},
	}
	cmd.AddCommand(
		newContactsListCmd(appOf),
		newContactsAddCmd(appOf),
		newContactsEditCmd(appOf),
		newContactsRmCmd(appOf),
	)
	return cmd
}

func newContactsListCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			contacts, err := app.Contacts.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name(), c.Email, c.Phone)
			}
			return w.Flush()
		},
	}
}

func newContactsAddCmd(appOf func() *App) *cobra.Command {
	var c models.Contact
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			created, err := app.Contacts.Create(cmd.Context(), &c)
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", created.Name(), created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&c.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&c.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&c.Email, "email", "", "email address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&c.Birthday, "birthday", "", "birthday, YYYY-MM-DD")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}

func newContactsEditCmd(appOf func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			fields := changedStringFields(cmd)
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change, pass at least one field flag")
			}
			updated, err := app.Contacts.Update(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", updated.Name(), updated.ID)
			return nil
		},
	}
	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("birthday", "", "birthday, YYYY-MM-DD")
	cmd.Flags().String("notes", "", "free-form notes")
	return cmd
}

func newContactsRmCmd(appOf func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appOf()
			if err := app.Contacts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOfflineNotice(cmd, app)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
