package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/roomz/cmd/server/internal/audit"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
	"github.com/houzhh15/roomz/cmd/server/internal/middleware"
	"github.com/houzhh15/roomz/pkg/logger"
	"github.com/houzhh15/roomz/pkg/metrics"
)

// MeetingListResponse is the body of GET /rooms/:roomId/meetings.
type MeetingListResponse struct {
	Count int                `json:"count"`
	Items []meetings.Meeting `json:"items"`
}

var missingFieldsMessage = "Missing required fields. Required: " + strings.Join(meetings.RequiredCreateFields, ", ")

// HandleListMeetings lists a room's meetings, optionally narrowed by
// ?start, ?end (overlap with [start, end)) and ?organizerId.
// GET /rooms/:roomId/meetings
func HandleListMeetings(store *meetings.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := meetings.ParseFilter(c.Query("start"), c.Query("end"), c.Query("organizerId"))
		items := meetings.Apply(store.GetMeetings(c.Param("roomId")), filter)

		c.JSON(http.StatusOK, MeetingListResponse{Count: len(items), Items: items})
	}
}

// HandleCreateMeeting appends a meeting to a room.
// POST /rooms/:roomId/meetings
func HandleCreateMeeting(store *meetings.Store, auditor audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			badRequestResponse(c, "failed to read request body")
			return
		}

		m, err := meetings.DecodeCreate(body)
		if err != nil {
			metrics.RecordMutation("create", "invalid")
			var ve *meetings.ValidationError
			if errors.As(err, &ve) && len(ve.Missing) > 0 {
				badRequestResponse(c, missingFieldsMessage)
				return
			}
			badRequestResponse(c, err.Error())
			return
		}

		created, err := store.AddMeeting(roomID, m)
		switch {
		case errors.Is(err, meetings.ErrDuplicateMeetingID):
			recordAudit(c, auditor, audit.ActionCreateMeeting, roomID, m.MeetingID, "conflict", nil, nil)
			conflictResponse(c, "meetingId "+m.MeetingID+" already exists in room "+roomID)
			return
		case err != nil:
			internalErrorResponse(c, err)
			return
		}

		recordAudit(c, auditor, audit.ActionCreateMeeting, roomID, created.MeetingID, "ok", nil, created)
		c.JSON(http.StatusCreated, created)
	}
}

// HandleUpdateMeeting applies a partial update to an existing meeting.
// PUT /rooms/:roomId/meetings/:meetingId
func HandleUpdateMeeting(store *meetings.Store, auditor audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		meetingID := c.Param("meetingId")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			badRequestResponse(c, "failed to read request body")
			return
		}

		updates, err := meetings.DecodeUpdate(body)
		if err != nil {
			metrics.RecordMutation("update", "invalid")
			badRequestResponse(c, err.Error())
			return
		}

		before, _ := store.Find(roomID, meetingID)
		updated, err := store.UpdateMeeting(roomID, meetingID, updates)
		switch {
		case errors.Is(err, meetings.ErrMeetingNotFound):
			recordAudit(c, auditor, audit.ActionUpdateMeeting, roomID, meetingID, "not_found", nil, nil)
			notFoundResponse(c, "meeting")
			return
		case errors.Is(err, meetings.ErrDuplicateMeetingID):
			recordAudit(c, auditor, audit.ActionUpdateMeeting, roomID, meetingID, "conflict", before, nil)
			conflictResponse(c, "meetingId "+*updates.MeetingID+" already exists in room "+roomID)
			return
		case err != nil:
			internalErrorResponse(c, err)
			return
		}

		recordAudit(c, auditor, audit.ActionUpdateMeeting, roomID, meetingID, "ok", before, updated)
		c.JSON(http.StatusOK, updated)
	}
}

// recordAudit writes one audit entry. A failed write is logged, the request
// still succeeds.
func recordAudit(c *gin.Context, auditor audit.AuditLogger, action audit.AuditAction, roomID, meetingID, result string, before, after any) {
	if auditor == nil {
		return
	}
	entry := audit.AuditEntry{
		Operator:  middleware.CurrentUser(c),
		Action:    action,
		RoomID:    roomID,
		MeetingID: meetingID,
		Result:    result,
		Before:    before,
		After:     after,
		SourceIP:  c.ClientIP(),
	}
	if err := auditor.LogAction(entry); err != nil {
		logger.L().Warn("audit log write failed", "action", action, "room_id", roomID, "error", err)
	}
}
