package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/pkg/domain"
)

const archivePage = "archive.html"

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and restore archived sessions of the flow",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		page := archivePageFlag(cmd)
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.ArchiveList(ctx, page, asJSON)
		})
	},
}

var archiveSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Restore an archive entry into the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		page := archivePageFlag(cmd)
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.ArchiveSelect(ctx, page, args[0], title)
		})
	},
}

func archivePageFlag(cmd *cobra.Command) domain.Page {
	name, _ := cmd.Flags().GetString("page")
	return cli.NewPage(name, nil, false)
}

func init() {
	archiveCmd.PersistentFlags().String("page", archivePage, "Page the archive is browsed from")
	archiveListCmd.Flags().Bool("json", false, "Print the list as JSON")
	archiveSelectCmd.Flags().String("title", "", "Title of the entry (defaults to the id)")

	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveSelectCmd)
}
