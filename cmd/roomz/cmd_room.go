package main

import (
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rooms",
		Aliases: []string{"room"},
		Short:   "Room catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookable rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := client.Get("/rooms")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, resp)
		},
	})
	return cmd
}
