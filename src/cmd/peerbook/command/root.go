package command

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for peerbook
var RootCmd = &cobra.Command{
	Use:              "peerbook",
	Short:            "inspect and maintain address book peer stores",
	TraverseChildren: true,
}
