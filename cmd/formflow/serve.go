package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Serves the flow over HTTP. Clients keep their own session record and send it with
every request; the server keeps nothing between requests. Metrics are exposed at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(s.LogLevel)
		if err != nil {
			return err
		}
		flow, _ := cmd.Flags().GetString("flow")
		port, _ := cmd.Flags().GetString("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Flow:     flow,
			Addr:     ":" + port,
			Settings: s,
			Logger:   logging.NewJSON(os.Stderr, level),
			Stdout:   cmd.OutOrStdout(),
			Version:  formflow.Version,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
