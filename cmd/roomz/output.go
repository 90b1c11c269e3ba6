package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// printOutput 按指定格式输出响应数据
func printOutput(w io.Writer, format string, data []byte) error {
	if format == "json" {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			// 非 JSON 数据直接输出
			fmt.Fprintln(w, string(data))
			return nil
		}
		fmt.Fprintln(w, out.String())
		return nil
	}
	// text 模式：直接输出
	fmt.Fprintln(w, string(bytes.TrimSpace(data)))
	return nil
}

type meetingRow struct {
	MeetingID     string `json:"meetingId"`
	Subject       string `json:"subject"`
	OrganizerName string `json:"organizerName"`
	StartDateUTC  string `json:"startDateUTC"`
	EndDateUTC    string `json:"endDateUTC"`
	IsPrivate     bool   `json:"isPrivate"`
	IsCancelled   bool   `json:"isCancelled"`
}

// printMeetingTable renders a meeting list response as aligned columns.
// Private meetings hide their subject.
func printMeetingTable(w io.Writer, data []byte) error {
	var resp struct {
		Count int          `json:"count"`
		Items []meetingRow `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("parse meeting list: %w", err)
	}
	if resp.Count == 0 {
		fmt.Fprintln(w, "No meetings.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tSUBJECT\tORGANIZER\tSTATUS")
	for _, m := range resp.Items {
		subject := m.Subject
		if m.IsPrivate {
			subject = "(private)"
		}
		status := "booked"
		if m.IsCancelled {
			status = "cancelled"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.MeetingID, m.StartDateUTC, m.EndDateUTC, subject, m.OrganizerName, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d meeting(s)\n", resp.Count)
	return nil
}
