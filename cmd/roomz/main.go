package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "roomz",
		Short:         "roomz - meeting room booking API command line client",
		Long:          "Calls the ROOMZ meeting API over HTTP: list rooms, list, create and update meetings.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newMeetingCmd())
	rootCmd.AddCommand(newHealthCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
