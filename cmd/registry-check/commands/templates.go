package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/templates"
)

func installTemplatesCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "templates PATH",
		Short: "Validate a template registry document",
		Long: `Validate the template registry: system prompts, prompt categories,
welcome screens, and content injection checks on user-visible strings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running templates command", "path", args[0])

			doc, err := document.Load(args[0])
			if err != nil {
				return app.emit([]report.Issue{document.FailureIssue(args[0], err)})
			}
			return app.emit(templates.Check(doc))
		},
	}

	app.cmd.AddCommand(cmd)
}
