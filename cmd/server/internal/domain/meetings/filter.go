package meetings

import (
	"strings"
	"time"
)

// Filter narrows a room's meetings for a read request. The zero value matches
// everything.
type Filter struct {
	Start       *time.Time
	End         *time.Time
	OrganizerID string
}

// ParseFilter builds a Filter from raw query values. A bound that is empty or
// fails to parse is ignored.
func ParseFilter(start, end, organizerID string) Filter {
	f := Filter{OrganizerID: organizerID}
	if t, ok := ParseTimestamp(start); ok {
		f.Start = &t
	}
	if t, ok := ParseTimestamp(end); ok {
		f.End = &t
	}
	return f
}

// HasWindow reports whether a time bound is active.
func (f Filter) HasWindow() bool {
	return f.Start != nil || f.End != nil
}

// Match reports whether m passes both the organizer and the time-window test.
func (f Filter) Match(m Meeting) bool {
	return f.matchOrganizer(m) && f.matchWindow(m)
}

func (f Filter) matchOrganizer(m Meeting) bool {
	return f.OrganizerID == "" || m.OrganizerID == f.OrganizerID
}

// matchWindow applies the half-open overlap test against [Start, End).
// Meetings whose own timestamps do not parse never match an active window.
func (f Filter) matchWindow(m Meeting) bool {
	if !f.HasWindow() {
		return true
	}
	start, ok := ParseTimestamp(m.StartDateUTC)
	if !ok {
		return false
	}
	end, ok := ParseTimestamp(m.EndDateUTC)
	if !ok {
		return false
	}
	if f.Start != nil && !end.After(*f.Start) {
		return false
	}
	if f.End != nil && !start.Before(*f.End) {
		return false
	}
	return true
}

// Apply returns the meetings that match f, preserving order.
func Apply(list []Meeting, f Filter) []Meeting {
	out := make([]Meeting, 0, len(list))
	for _, m := range list {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// zonedLayouts cover ISO 8601 forms RFC 3339 rejects: minute precision,
// offsets without a colon, and the basic (separator-free) format.
var zonedLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04-0700",
	"20060102T150405.999999999Z07:00",
	"20060102T150405.999999999-0700",
	"20060102T1504Z07:00",
	"20060102T1504-0700",
}

// naiveLayouts are accepted without a zone and read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"20060102T150405.999999999",
	"20060102T1504",
	"20060102",
}

// ParseTimestamp parses an ISO-8601 timestamp in extended or basic format.
// Values with a zone keep their offset; values without one are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
