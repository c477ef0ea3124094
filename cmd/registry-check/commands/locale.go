package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/constants"
	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/locale"
	"github.com/aiscouncil/registry-check/internal/report"
)

func installLocaleCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "locale [PATH]",
		Short: "Validate locale files against the source locale",
		Long: `Validate one locale file, or with --all every locale file in a directory,
against the source locale (en.json by default): key tree, placeholder
tokens, and metadata consistency.

With --all --watch, the directory is re-validated whenever a locale file
changes, until interrupted.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if app.config.allLocales {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if app.config.watch && !app.config.allLocales {
				app.cmd.SilenceUsage = false
				return fmt.Errorf("--watch requires --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running locale command", "all", app.config.allLocales, "watch", app.config.watch)

			if app.config.allLocales {
				return app.localeAllRun()
			}
			return app.localeRun(args[0])
		},
	}

	cmd.Flags().BoolVar(&app.config.allLocales, "all", false, "validate every locale file in the directory")
	cmd.Flags().StringVar(&app.config.localeDir, "dir", ".", "directory holding the locale files (with --all)")
	cmd.Flags().StringVarP(&app.config.sourcePath, "source", "s", "", "source locale file (defaults to "+constants.DefaultSourceLocale+" next to the target)")
	cmd.Flags().BoolVarP(&app.config.watch, "watch", "w", false, "re-validate on file changes (with --all)")
	if err := cmd.MarkFlagDirname("dir"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagFilename("source"); err != nil {
		panic(err)
	}

	app.cmd.AddCommand(cmd)
}

func (a *App) localeRun(path string) error {
	source, issue := a.loadSource(filepath.Dir(path))
	if issue != nil {
		return a.emit([]report.Issue{*issue})
	}

	target, err := document.Load(path)
	if err != nil {
		return a.emit([]report.Issue{document.FailureIssue(path, err)})
	}

	return a.emit(locale.Check(source, target))
}

func (a *App) localeAllRun() error {
	if !a.config.watch {
		issues, err := a.checkLocaleDir()
		if err != nil {
			return err
		}
		return a.emit(issues)
	}
	return a.watchLocaleDir()
}

func (a *App) checkLocaleDir() ([]report.Issue, error) {
	source, issue := a.loadSource(a.config.localeDir)
	if issue != nil {
		return []report.Issue{*issue}, nil
	}
	return locale.CheckDir(a.config.localeDir, source)
}

// watchLocaleDir re-validates the locale directory on every change to a
// JSON file in it, until the process is interrupted.
func (a *App) watchLocaleDir() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(a.config.localeDir); err != nil {
		return fmt.Errorf("could not watch %s: %w", a.config.localeDir, err)
	}

	run := func() {
		issues, err := a.checkLocaleDir()
		if err != nil {
			slog.Error("Locale validation failed", "error", err)
			return
		}
		// Watch mode is a feedback loop, not a gate: render the report and
		// keep watching regardless of the outcome.
		if err := a.emit(issues); err != nil && !errors.Is(err, ErrValidationFailed) {
			slog.Error("Could not render report", "error", err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != constants.DocumentExtension {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Info("Locale file changed, re-validating", "file", event.Name)
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// loadSource loads the source locale, from the --source flag or the
// configured source file name inside dir.
func (a *App) loadSource(dir string) (document.Document, *report.Issue) {
	path := a.config.sourcePath
	if path == "" {
		path = filepath.Join(dir, a.config.Policy.Locale.Source)
	}

	source, err := document.Load(path)
	if err != nil {
		issue := document.FailureIssue(path, err)
		return document.Document{}, &issue
	}
	return source, nil
}
