package meetings

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the format used for server-assigned timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z"

// DefaultRoomID receives persisted records that carry no roomId.
const DefaultRoomID = "Room 1"

// Meeting is a booking record attached to exactly one room.
type Meeting struct {
	MeetingID       string `json:"meetingId"`
	Subject         string `json:"subject"`
	OrganizerID     string `json:"organizerId"`
	OrganizerName   string `json:"organizerName"`
	StartDateUTC    string `json:"startDateUTC"`
	EndDateUTC      string `json:"endDateUTC"`
	CreationDateUTC string `json:"creationDateUTC"`
	IsPrivate       bool   `json:"isPrivate"`
	IsCancelled     bool   `json:"isCancelled"`
}

// FieldUpdates is a partial meeting. Nil fields are left untouched.
type FieldUpdates struct {
	MeetingID       *string
	Subject         *string
	OrganizerID     *string
	OrganizerName   *string
	StartDateUTC    *string
	EndDateUTC      *string
	CreationDateUTC *string
	IsPrivate       *bool
	IsCancelled     *bool
}

// Apply returns m with every non-nil field of u copied over.
func (u FieldUpdates) Apply(m Meeting) Meeting {
	if u.MeetingID != nil {
		m.MeetingID = *u.MeetingID
	}
	if u.Subject != nil {
		m.Subject = *u.Subject
	}
	if u.OrganizerID != nil {
		m.OrganizerID = *u.OrganizerID
	}
	if u.OrganizerName != nil {
		m.OrganizerName = *u.OrganizerName
	}
	if u.StartDateUTC != nil {
		m.StartDateUTC = *u.StartDateUTC
	}
	if u.EndDateUTC != nil {
		m.EndDateUTC = *u.EndDateUTC
	}
	if u.CreationDateUTC != nil {
		m.CreationDateUTC = *u.CreationDateUTC
	}
	if u.IsPrivate != nil {
		m.IsPrivate = *u.IsPrivate
	}
	if u.IsCancelled != nil {
		m.IsCancelled = *u.IsCancelled
	}
	return m
}

// persistedMeeting is the structure saved to disk: a flat meeting plus its room.
type persistedMeeting struct {
	RoomID string `json:"roomId"`
	Meeting
}

// NewMeetingID returns an id of the form m-<8 hex chars>.
func NewMeetingID() string {
	return "m-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// FormatTimestamp renders t the way server-assigned timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
