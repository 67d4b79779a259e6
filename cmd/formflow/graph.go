package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow's page graph",
	Long:  `Reads the flow config and outputs a Mermaid diagram (graph TD) of its pages and fallbacks.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.Graph(ctx, current)
		})
	},
}

func init() {
	graphCmd.Flags().String("current", "", "Page to highlight")
	rootCmd.AddCommand(graphCmd)
}
