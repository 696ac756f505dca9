package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			// Connect already migrated; report what we talked to.
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.db.DriverName())
			return nil
		}),
	}
}
