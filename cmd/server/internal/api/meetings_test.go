package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/roomz/cmd/server/internal/audit"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
)

const seedJSON = `[
  {"meetingId": "m-1", "subject": "Standup", "organizerId": "org-1", "organizerName": "Anna",
   "startDateUTC": "2025-03-03T09:00:00Z", "endDateUTC": "2025-03-03T10:00:00Z",
   "creationDateUTC": "2025-03-01T08:00:00Z", "isPrivate": false, "isCancelled": false},
  {"meetingId": "m-2", "subject": "Review", "organizerId": "org-2", "organizerName": "Ben",
   "startDateUTC": "2025-03-03T10:00:00Z", "endDateUTC": "2025-03-03T11:00:00Z",
   "creationDateUTC": "2025-03-01T08:00:00Z", "isPrivate": true, "isCancelled": false},
  {"roomId": "Room 2", "meetingId": "m-3", "subject": "Offsite", "organizerId": "org-1", "organizerName": "Anna",
   "startDateUTC": "2025-03-04T09:00:00Z", "endDateUTC": "2025-03-04T17:00:00Z",
   "creationDateUTC": "2025-03-01T08:00:00Z", "isPrivate": false, "isCancelled": false}
]`

type fixture struct {
	router   *gin.Engine
	store    *meetings.Store
	auditor  *recordingAuditor
	dataPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "meetings.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedJSON), 0o644))

	f := &fixture{
		dataPath: filepath.Join(dir, "data", "meetings_store.json"),
		auditor:  &recordingAuditor{},
	}
	f.store = meetings.NewStore(meetings.StoreOptions{DataPath: f.dataPath, SeedPath: seedPath})
	require.NoError(t, f.store.Load())

	f.router = gin.New()
	f.router.GET("/rooms/:roomId/meetings", HandleListMeetings(f.store))
	f.router.POST("/rooms/:roomId/meetings", HandleCreateMeeting(f.store, f.auditor))
	f.router.PUT("/rooms/:roomId/meetings/:meetingId", HandleUpdateMeeting(f.store, f.auditor))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) MeetingListResponse {
	t.Helper()
	var resp MeetingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func listIDs(resp MeetingListResponse) []string {
	out := []string{}
	for _, m := range resp.Items {
		out = append(out, m.MeetingID)
	}
	return out
}

func TestHandleListMeetings(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		expect []string
	}{
		{"default room in load order", "/rooms/Room%201/meetings", []string{"m-1", "m-2"}},
		{"explicit room", "/rooms/Room%202/meetings", []string{"m-3"}},
		{"unknown room is empty", "/rooms/Room%209/meetings", []string{}},
		{"organizer", "/rooms/Room%201/meetings?organizerId=org-2", []string{"m-2"}},
		{"window start excludes meeting ending there", "/rooms/Room%201/meetings?start=2025-03-03T10:00:00Z", []string{"m-2"}},
		{"window end excludes meeting starting there", "/rooms/Room%201/meetings?end=2025-03-03T10:00:00Z", []string{"m-1"}},
		{"window and organizer intersect", "/rooms/Room%201/meetings?start=2025-03-03T09:30:00Z&organizerId=org-1", []string{"m-1"}},
		{"garbage bound ignored", "/rooms/Room%201/meetings?start=tomorrow", []string{"m-1", "m-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			resp := decodeList(t, w)
			assert.Equal(t, tt.expect, listIDs(resp))
			assert.Equal(t, len(tt.expect), resp.Count)
		})
	}
}

func TestHandleListMeetings_EmptyItemsIsArray(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/rooms/nowhere/meetings", "")
	assert.JSONEq(t, `{"count":0,"items":[]}`, w.Body.String())
}

func TestHandleCreateMeeting(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/rooms/Room%201/meetings", `{
	  "subject": "Retro", "organizerId": "org-3", "organizerName": "Cleo",
	  "startDateUTC": "2025-03-03T15:00:00Z", "endDateUTC": "2025-03-03T16:00:00Z",
	  "creationDateUTC": "", "isPrivate": false, "isCancelled": false
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created meetings.Meeting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Regexp(t, `^m-[0-9a-f]{8}$`, created.MeetingID)
	assert.Equal(t, "Retro", created.Subject)
	assert.NotEmpty(t, created.CreationDateUTC)

	list := decodeList(t, f.do(http.MethodGet, "/rooms/Room%201/meetings", ""))
	assert.Equal(t, []string{"m-1", "m-2", created.MeetingID}, listIDs(list))

	_, err := os.Stat(f.dataPath)
	assert.NoError(t, err, "create persists the store")

	entry := f.auditor.last()
	assert.Equal(t, audit.ActionCreateMeeting, entry.Action)
	assert.Equal(t, "Room 1", entry.RoomID)
	assert.Equal(t, created.MeetingID, entry.MeetingID)
	assert.Equal(t, "ok", entry.Result)
	assert.Equal(t, "anonymous", entry.Operator)
}

func TestHandleCreateMeeting_MissingFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/rooms/Room%201/meetings", `{"subject": "x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Missing required fields. Required: subject, organizerName, startDateUTC, endDateUTC, creationDateUTC, isPrivate, isCancelled"}`, w.Body.String())

	w = f.do(http.MethodPost, "/rooms/Room%201/meetings", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, f.store.GetMeetings("Room 1"), 2)
	_, err := os.Stat(f.dataPath)
	assert.True(t, os.IsNotExist(err), "rejected create must not persist")
}

func TestHandleCreateMeeting_WrongType(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/rooms/Room%201/meetings", `{
	  "subject": "x", "organizerName": "y", "startDateUTC": "a", "endDateUTC": "b",
	  "creationDateUTC": "c", "isPrivate": "yes", "isCancelled": false
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "isPrivate")
}

func TestHandleCreateMeeting_DuplicateID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/rooms/Room%201/meetings", `{
	  "meetingId": "m-1", "subject": "x", "organizerName": "y",
	  "startDateUTC": "2025-03-03T15:00:00Z", "endDateUTC": "2025-03-03T16:00:00Z",
	  "creationDateUTC": null, "isPrivate": false, "isCancelled": false
	}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", f.auditor.last().Result)
	assert.Len(t, f.store.GetMeetings("Room 1"), 2)
}

func TestHandleUpdateMeeting(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/rooms/Room%201/meetings/m-2", `{"subject": "Design review", "isCancelled": true, "roomId": "Room 2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated meetings.Meeting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "m-2", updated.MeetingID)
	assert.Equal(t, "Design review", updated.Subject)
	assert.True(t, updated.IsCancelled)
	assert.True(t, updated.IsPrivate, "untouched field keeps its value")
	assert.Equal(t, "Ben", updated.OrganizerName)

	got, ok := f.store.Find("Room 1", "m-2")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	entry := f.auditor.last()
	assert.Equal(t, audit.ActionUpdateMeeting, entry.Action)
	assert.Equal(t, "ok", entry.Result)
	before, ok := entry.Before.(meetings.Meeting)
	require.True(t, ok)
	assert.Equal(t, "Review", before.Subject)
}

func TestHandleUpdateMeeting_NotFound(t *testing.T) {
	f := newFixture(t)

	tests := []string{
		"/rooms/Room%201/meetings/m-404",
		"/rooms/Room%202/meetings/m-1",
	}
	for _, path := range tests {
		w := f.do(http.MethodPut, path, `{"subject": "x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"meeting not found"}`, w.Body.String())
	}

	_, err := os.Stat(f.dataPath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "not_found", f.auditor.last().Result)
}

func TestHandleUpdateMeeting_BadPayload(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/rooms/Room%201/meetings/m-1", `{"isPrivate": "no"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, _ := f.store.Find("Room 1", "m-1")
	assert.False(t, got.IsPrivate)
}

func TestHandleUpdateMeeting_IDCollision(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/rooms/Room%201/meetings/m-2", `{"meetingId": "m-1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "m-1")
}

func TestHandleUpdateMeeting_EmptyBodyReturnsRecord(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/rooms/Room%201/meetings/m-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subject":"Standup"`)
}
