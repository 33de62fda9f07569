package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// printOfflineNotice tells the user the command was served from the local
// mirror. The check reuses the monitor's cached probe result, so this never
// adds a network round trip of its own.
func printOfflineNotice(cmd *cobra.Command, app *App) {
	if app.Monitor.Online(cmd.Context()) {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "offline: using local data, changes will sync later")
}

// changedStringFields collects the string flags the user actually set into a
// partial-update map, translating dashed flag names to the underscored JSON
// field names. Only flags declared on the command itself count; inherited
// flags like --db stay out.
func changedStringFields(cmd *cobra.Command) map[string]any {
	fields := map[string]any{}
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed && f.Value.Type() == "string" {
			fields[strings.ReplaceAll(f.Name, "-", "_")] = f.Value.String()
		}
	})
	return fields
}
