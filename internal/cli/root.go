package cli

import (
	"github.com/spf13/cobra"

	"github.com/rapport-app/rapport/internal/config"
)

// Execute runs the root command. It is the single entry point for the
// rapport binary.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full command tree. The App is constructed in
// PersistentPreRunE so every subcommand sees the same flag-adjusted config,
// and torn down in PersistentPostRunE.
func NewRootCmd() *cobra.Command {
	var (
		app      *App
		cfgPath  string
		apiURL   string
		apiToken string
		dbPath   string
	)

	root := &cobra.Command{
		Use:           "rapport",
		Short:         "Local-first personal relationship manager",
		Long:          "rapport keeps contacts, keystones and interactions in a local mirror\nand reconciles queued changes with the hosted service when online.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api") {
				cfg.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("token") {
				cfg.APIToken = apiToken
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath = dbPath
			}
			app, err = NewApp(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringVarP(&apiURL, "api", "a", "", "base URL of the hosted service")
	root.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token for the hosted service")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path of the local database")

	appOf := func() *App { return app }

	root.AddCommand(
		newContactsCmd(appOf),
		newKeystonesCmd(appOf),
		newInteractionsCmd(appOf),
		newSyncCmd(appOf),
		newStatusCmd(appOf),
		newLogoutCmd(appOf),
	)
	return root
}
