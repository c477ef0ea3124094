// Main package for the registry-check command line tool.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/aiscouncil/registry-check/cmd/registry-check/commands"
	"github.com/aiscouncil/registry-check/internal/constants"
)

func main() {
	slog.SetLogLoggerLevel(constants.DefaultLogLevel)

	a, err := commands.New()
	if err != nil {
		os.Exit(1)
	}

	os.Exit(run(a))
}

type app interface {
	Run() error
	UsageError() bool
}

func run(a app) int {
	if err := a.Run(); err != nil {
		if !errors.Is(err, commands.ErrValidationFailed) {
			slog.Error(err.Error())
		}

		if a.UsageError() {
			return 2
		}
		return 1
	}

	return 0
}
