package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willco-1/cuprate/src/version"
)

// VersionCmd displays the version of peerbook being used
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}
