package main

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func newMeetingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meeting",
		Aliases: []string{"mtg"},
		Short:   "Meetings of a room (list, create, update)",
	}
	cmd.AddCommand(newMeetingListCmd())
	cmd.AddCommand(newMeetingCreateCmd())
	cmd.AddCommand(newMeetingUpdateCmd())
	return cmd
}

func newMeetingListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List the room's meetings, optionally within a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient(cmd)
			if err != nil {
				return err
			}

			query := url.Values{}
			for flag, param := range map[string]string{"start": "start", "end": "end", "organizer-id": "organizerId"} {
				if v := mustGetString(cmd, flag); v != "" {
					query.Set(param, v)
				}
			}
			path := meetingsPath(cfg.RoomID)
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			resp, err := client.Get(path)
			if err != nil {
				return err
			}
			if cfg.Output == "json" {
				return printOutput(cmd.OutOrStdout(), cfg.Output, resp)
			}
			return printMeetingTable(cmd.OutOrStdout(), resp)
		},
	}
	c.Flags().String("start", "", "window start, ISO 8601 (meetings ending at or before it are skipped)")
	c.Flags().String("end", "", "window end, ISO 8601 (meetings starting at or after it are skipped)")
	c.Flags().String("organizer-id", "", "only meetings of this organizer")
	return c
}

func newMeetingCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "Book a meeting in the room",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient(cmd)
			if err != nil {
				return err
			}

			// 服务端要求以下键全部出现
			body := map[string]interface{}{
				"subject":         mustGetString(cmd, "subject"),
				"organizerName":   mustGetString(cmd, "organizer-name"),
				"startDateUTC":    mustGetString(cmd, "start"),
				"endDateUTC":      mustGetString(cmd, "end"),
				"creationDateUTC": mustGetString(cmd, "creation-date"),
				"isPrivate":       mustGetBool(cmd, "private"),
				"isCancelled":     mustGetBool(cmd, "cancelled"),
			}
			addOptionalString(cmd, body, "organizer-id", "organizerId")
			addOptionalString(cmd, body, "meeting-id", "meetingId")

			resp, err := client.Request(http.MethodPost, meetingsPath(cfg.RoomID), body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, resp)
		},
	}
	c.Flags().String("subject", "", "subject (required)")
	c.Flags().String("organizer-name", "", "organizer display name (required)")
	c.Flags().String("organizer-id", "", "organizer id")
	c.Flags().String("start", "", "start, e.g. 2025-03-03T09:00:00Z (required)")
	c.Flags().String("end", "", "end, e.g. 2025-03-03T10:00:00Z (required)")
	c.Flags().String("creation-date", "", "creation timestamp (default: server time)")
	c.Flags().String("meeting-id", "", "explicit meeting id (default: generated)")
	c.Flags().Bool("private", false, "hide the subject on displays")
	c.Flags().Bool("cancelled", false, "create as cancelled")
	_ = c.MarkFlagRequired("subject")
	_ = c.MarkFlagRequired("organizer-name")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}

func newMeetingUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update",
		Short: "Change selected fields of a meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient(cmd)
			if err != nil {
				return err
			}

			body := map[string]interface{}{}
			addOptionalString(cmd, body, "subject")
			addOptionalString(cmd, body, "organizer-id", "organizerId")
			addOptionalString(cmd, body, "organizer-name", "organizerName")
			addOptionalString(cmd, body, "start", "startDateUTC")
			addOptionalString(cmd, body, "end", "endDateUTC")
			addOptionalString(cmd, body, "creation-date", "creationDateUTC")
			addOptionalString(cmd, body, "new-meeting-id", "meetingId")
			addOptionalBool(cmd, body, "private", "isPrivate")
			addOptionalBool(cmd, body, "cancelled", "isCancelled")

			path := meetingsPath(cfg.RoomID) + "/" + url.PathEscape(mustGetString(cmd, "meeting-id"))
			resp, err := client.Request(http.MethodPut, path, body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, resp)
		},
	}
	c.Flags().String("meeting-id", "", "meeting to update (required)")
	c.Flags().String("subject", "", "new subject")
	c.Flags().String("organizer-id", "", "new organizer id")
	c.Flags().String("organizer-name", "", "new organizer name")
	c.Flags().String("start", "", "new start")
	c.Flags().String("end", "", "new end")
	c.Flags().String("creation-date", "", "new creation timestamp")
	c.Flags().String("new-meeting-id", "", "rename the meeting id")
	c.Flags().Bool("private", false, "set the private flag")
	c.Flags().Bool("cancelled", false, "set the cancelled flag, e.g. --cancelled or --cancelled=false")
	_ = c.MarkFlagRequired("meeting-id")
	return c
}
