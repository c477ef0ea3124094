package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/manifest"
	"github.com/aiscouncil/registry-check/internal/report"
)

func installManifestCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "manifest PATH",
		Short: "Validate a standalone package manifest",
		Long: `Validate one manifest document: base field rules, type-specific
requirements, the ABI acceptance gate, and permission grants.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running manifest command", "path", args[0])

			doc, err := document.Load(args[0])
			if err != nil {
				return app.emit([]report.Issue{document.FailureIssue(args[0], err)})
			}
			return app.emit(manifest.New(app.config.Policy).Check(doc))
		},
	}

	app.cmd.AddCommand(cmd)
}
