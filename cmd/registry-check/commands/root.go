// Package commands is the registry-check command line surface.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aiscouncil/registry-check/internal/cli"
	"github.com/aiscouncil/registry-check/internal/constants"
	"github.com/aiscouncil/registry-check/internal/policy"
	"github.com/aiscouncil/registry-check/internal/report"
)

// ErrValidationFailed is returned by commands whose report did not pass.
// The orchestrating pipeline only consumes the resulting exit status.
var ErrValidationFailed = errors.New("validation failed")

// App represents the application.
type App struct {
	cmd   *cobra.Command
	viper *viper.Viper

	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	Format    string

	Policy policy.Config `mapstructure:",squash"`

	// Command flags not backed by configuration.
	manifestPath string
	sourcePath   string
	localeDir    string
	allLocales   bool
	watch        bool
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{config: appConfig{Format: string(report.FormatText), Policy: policy.Default()}}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName + " COMMAND",
		Short: "Validate community registry documents",
		Long: "Registry-check validates community-submitted registry documents (models, packages, manifests, locales, themes, templates) " +
			"before they are merged into the canonical registry. A non-zero exit status means at least one error-severity issue was found.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}
			cli.SetVerbosity(a.config.Verbosity)
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	installModelsCmd(&a)
	installPackagesCmd(&a)
	installManifestCmd(&a)
	installLocaleCmd(&a)
	installThemesCmd(&a)
	installTemplatesCmd(&a)
	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().StringVarP(&app.config.Format, "format", "f", string(report.FormatText), "report output format (text, json, yaml)")
}

// Run executes the command and associated process, returning an error if any.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

// SetArgs changes the args the root command parses, used in tests.
func (a *App) SetArgs(args []string) {
	a.cmd.SetArgs(args)
}

// emit renders the aggregated report and maps a failed report to
// ErrValidationFailed so main can exit non-zero.
func (a *App) emit(issues []report.Issue) error {
	format, err := report.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}

	rep := report.Aggregate(issues)
	if err := rep.Render(os.Stdout, format); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}

	if !rep.Passed {
		return ErrValidationFailed
	}
	return nil
}
