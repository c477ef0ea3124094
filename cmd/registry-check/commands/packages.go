package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/manifest"
	"github.com/aiscouncil/registry-check/internal/registry"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

func installPackagesCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "packages PATH",
		Short: "Validate a package registry document",
		Long: `Validate the package registry: per-package field rules, name uniqueness,
seller policy, and verification badges. With --manifest, the given manifest
file is also validated and cross-checked against its registry entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running packages command", "path", args[0], "manifest", app.config.manifestPath)
			return app.packagesRun(args[0])
		},
	}

	cmd.Flags().StringVarP(&app.config.manifestPath, "manifest", "m", "", "manifest file to validate against its registry entry")
	if err := cmd.MarkFlagFilename("manifest"); err != nil {
		panic(err)
	}

	app.cmd.AddCommand(cmd)
}

func (a *App) packagesRun(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return a.emit([]report.Issue{document.FailureIssue(path, err)})
	}

	checker := registry.NewPackagesChecker(time.Now(), a.config.Policy)
	issues := checker.Check(doc)

	if a.config.manifestPath != "" {
		issues = append(issues, a.checkManifestAgainst(doc)...)
	}

	return a.emit(issues)
}

// checkManifestAgainst validates the --manifest file and compares it with
// the registry entry bearing the manifest's package name.
func (a *App) checkManifestAgainst(registryDoc document.Document) []report.Issue {
	path := a.config.manifestPath

	manifestDoc, err := document.Load(path)
	if err != nil {
		return []report.Issue{document.FailureIssue(path, err)}
	}

	validator := manifest.New(a.config.Policy)
	issues := validator.Check(manifestDoc)

	var m manifest.Manifest
	if err := manifestDoc.Decode(&m); err != nil || m.Name == "" {
		return issues
	}

	pkg, found := findPackage(registryDoc, m.Name)
	if !found {
		issues = append(issues, report.New(report.VersionMismatch, path, "name",
			"no package registry entry named %q", m.Name))
		return issues
	}

	return append(issues, manifest.CrossCheck(manifestDoc, m, pkg)...)
}

// findPackage locates the registry entry with the given name, if any.
func findPackage(doc document.Document, name string) (registry.Package, bool) {
	raw, _ := schema.Lookup(doc.Data, "packages")
	entries, ok := raw.([]any)
	if !ok {
		return registry.Package{}, false
	}

	for _, elem := range entries {
		entry, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if entry["name"] != name {
			continue
		}
		var p registry.Package
		if err := (document.Document{Name: doc.Name, Data: entry}).Decode(&p); err != nil {
			continue
		}
		return p, true
	}
	return registry.Package{}, false
}
