// Package cli provides shared helpers for the registry-check command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitViperConfig loads the tool configuration into vip: an explicit
// --config file when one is given, otherwise the first <cmdName> config
// file found in the working directory, /etc/<cmdName> or next to the
// binary. Running without any configuration file is fine; defaults,
// environment variables and flags still apply.
func InitViperConfig(cmdName string, cmd *cobra.Command, vip *viper.Viper) error {
	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName(cmdName)
		vip.AddConfigPath(".")
		vip.AddConfigPath(filepath.Join("/etc", cmdName))
		if binPath, err := os.Executable(); err == nil {
			vip.AddConfigPath(filepath.Dir(binPath))
		}
	}

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("invalid configuration file: %w", err)
		}
		slog.Info("No configuration file found, using defaults, environment variables and flags")
	} else {
		slog.Info("Using configuration file", "file", vip.ConfigFileUsed())
	}

	vip.SetEnvPrefix(cmdName)
	vip.AutomaticEnv()

	// Unmarshal does not see env-only keys unless they are bound explicitly
	// (spf13/viper#1429), so bind every variable under our prefix.
	prefix := strings.ToUpper(strings.ReplaceAll(cmdName, "-", "_")) + "_"
	for _, e := range os.Environ() {
		name, _, _ := strings.Cut(e, "=")
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, prefix)), "_", ".")
		if err := vip.BindEnv(key, name); err != nil {
			return fmt.Errorf("could not bind environment variable %s: %w", name, err)
		}
	}

	return nil
}

// InstallConfigFlag registers the persistent --config flag on cmd.
func InstallConfigFlag(cmd *cobra.Command) *string {
	return cmd.PersistentFlags().String("config", "", "path to a configuration file")
}
