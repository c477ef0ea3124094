package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/themes"
)

func installThemesCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "themes PATH",
		Short: "Validate a theme registry document",
		Long: `Validate the theme registry: per-theme field rules, ID uniqueness,
CSS custom property names and values, and content injection checks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running themes command", "path", args[0])

			doc, err := document.Load(args[0])
			if err != nil {
				return app.emit([]report.Issue{document.FailureIssue(args[0], err)})
			}
			return app.emit(themes.Check(doc))
		},
	}

	app.cmd.AddCommand(cmd)
}
