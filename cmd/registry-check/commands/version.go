package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aiscouncil/registry-check/internal/constants"
)

func (a *App) installVersion() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns the version of " + constants.CmdName + " and exits",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return getVersion() },
	}
	a.cmd.AddCommand(cmd)
}

// getVersion returns the current tool version.
func getVersion() (err error) {
	fmt.Printf("%s\t%s\n", constants.CmdName, constants.Version)
	return nil
}
