package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the session record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.Reset(ctx)
		})
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the session record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.State(ctx, asJSON)
		})
	},
}

func init() {
	stateCmd.Flags().Bool("json", false, "Print the raw record as JSON")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(stateCmd)
}
