package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/internal/settings"
	"github.com/aretw0/formflow/pkg/flowconfig"
)

var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "formflow drives webhook-backed form wizards",
	Long: `formflow runs the pages of a multi-step form flow from the terminal: it keeps the
session record, calls the flow's webhook on every trigger and prints where to go next.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.NewConsole(os.Stderr).Error(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flow", flowconfig.DefaultLocation, "Flow config path or URL")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides FORMFLOW_LOG_LEVEL")
	rootCmd.PersistentFlags().String("env-file", "", "Env file to load instead of ./.env")
}

// loadSettings reads the environment and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*settings.Settings, error) {
	var files []string
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		files = append(files, envFile)
	}
	s, err := settings.Load(files...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newApp builds the App every page command runs on.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	flow, _ := cmd.Flags().GetString("flow")

	return cli.New(cli.Options{
		Flow:     flow,
		Settings: s,
		Logger:   logging.New(level),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	})
}

// withApp runs fn on a fresh App inside a signal-aware context.
func withApp(cmd *cobra.Command, fn func(ctx *cli.SignalContext, app *cli.App) error) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()
	return fn(ctx, app)
}
