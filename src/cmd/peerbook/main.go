package main

import (
	"os"

	cmd "github.com/willco-1/cuprate/src/cmd/peerbook/command"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewInspectCmd(),
		cmd.NewPruneCmd(),
		cmd.NewExportCmd())

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
