// Package constants defines the constants used by registry-check.
package constants

import "log/slog"

const (
	// CmdName is the name of the command line tool.
	CmdName = "registry-check"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultSourceLocale is the base name of the source-of-truth locale file.
	DefaultSourceLocale = "en.json"

	// DefaultValidityMonths is the default verification badge validity window, in months.
	DefaultValidityMonths = 12

	// DocumentExtension is the extension registry documents are expected to carry.
	DocumentExtension = ".json"
)

// Version is the version of the tool, overridden at build time.
var Version = "Dev"
