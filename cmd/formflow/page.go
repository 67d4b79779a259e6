package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/pkg/domain"
)

var openCmd = &cobra.Command{
	Use:   "open <page>",
	Short: "Load a page and run its initialization",
	Long: `Loads a page of the flow. The landing page (index.html, or any page opened with
--landing) always calls the webhook and redirects; other pages call it only until the
session is initialized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetStringToString("query")
		landing, _ := cmd.Flags().GetBool("landing")
		page := cli.NewPage(args[0], query, landing)

		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.Open(ctx, page)
		})
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <page>",
	Short: "Submit the form of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetStringToString("query")
		fields, _ := cmd.Flags().GetStringToString("field")
		page := cli.NewPage(args[0], query, false)

		sub := domain.Submission{
			Fields:    fields,
			Form:      declaration(cmd, "form-"),
			Submitter: declaration(cmd, "submitter-"),
		}
		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.Submit(ctx, page, sub)
		})
	},
}

var actionCmd = &cobra.Command{
	Use:   "action <page>",
	Short: "Invoke a discrete action on a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetStringToString("query")
		page := cli.NewPage(args[0], query, false)
		action := declaration(cmd, "")

		return withApp(cmd, func(ctx *cli.SignalContext, app *cli.App) error {
			return app.Action(ctx, page, action)
		})
	},
}

// addDeclarationFlags registers the attributes an element can declare, under prefix.
func addDeclarationFlags(cmd *cobra.Command, prefix, element string) {
	cmd.Flags().String(prefix+"vars", "", "JSON object of request variables declared by the "+element)
	cmd.Flags().String(prefix+"fallback", "", "Page to go to when the webhook names none ("+element+")")
	cmd.Flags().String(prefix+"message", "", "Waiting message shown while the request is in flight ("+element+")")
}

func declaration(cmd *cobra.Command, prefix string) domain.Declaration {
	vars, _ := cmd.Flags().GetString(prefix + "vars")
	fallback, _ := cmd.Flags().GetString(prefix + "fallback")
	message, _ := cmd.Flags().GetString(prefix + "message")
	return domain.Declaration{
		RequestVariables: vars,
		NextStepFallback: fallback,
		WaitingMessage:   message,
	}
}

func init() {
	for _, c := range []*cobra.Command{openCmd, submitCmd, actionCmd} {
		c.Flags().StringToStringP("query", "q", nil, "Page URL query parameters (key=value)")
		rootCmd.AddCommand(c)
	}
	openCmd.Flags().Bool("landing", false, "Treat the page as the flow's landing page")

	submitCmd.Flags().StringToStringP("field", "f", nil, "Form field values (name=value)")
	addDeclarationFlags(submitCmd, "form-", "form")
	addDeclarationFlags(submitCmd, "submitter-", "submit button")

	addDeclarationFlags(actionCmd, "", "action")
}
