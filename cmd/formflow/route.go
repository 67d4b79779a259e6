package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/pkg/routing"
)

var routeCmd = &cobra.Command{
	Use:   "route <segment>",
	Short: "Resolve a published route to its flow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routes, _ := cmd.Flags().GetString("routes")
		return cli.ResolveRoute(cmd.Context(), cmd.OutOrStdout(), routes, routing.Segment(args[0]))
	},
}

func init() {
	routeCmd.Flags().String("routes", routing.DefaultRoutesLocation, "Routes table path or URL")
	rootCmd.AddCommand(routeCmd)
}
