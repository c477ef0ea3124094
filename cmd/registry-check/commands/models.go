package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/registry"
	"github.com/aiscouncil/registry-check/internal/report"
)

func installModelsCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "models PATH",
		Short: "Validate a model registry document",
		Long: `Validate the model registry: document structure, provider table,
per-model field rules, provider references and ID uniqueness, and preset councils.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running models command", "path", args[0])

			doc, err := document.Load(args[0])
			if err != nil {
				return app.emit([]report.Issue{document.FailureIssue(args[0], err)})
			}
			return app.emit(registry.CheckModels(doc))
		},
	}

	app.cmd.AddCommand(cmd)
}
