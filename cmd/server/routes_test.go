package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/roomz/cmd/server/internal/audit"
	"github.com/houzhh15/roomz/cmd/server/internal/config"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/rooms"
	"github.com/houzhh15/roomz/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if _, err := logger.Init(logger.Config{Level: "error", Environment: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "dev", Port: "5000"},
		Data: config.DataConfig{
			MeetingsFile:  filepath.Join(dir, "meetings_store.json"),
			DefaultRoomID: meetings.DefaultRoomID,
		},
		Security: config.SecurityConfig{CORSOrigin: "*"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	store := meetings.NewStore(meetings.StoreOptions{DataPath: cfg.Data.MeetingsFile})
	require.NoError(t, store.Load())

	r := gin.New()
	setupRoutes(r, cfg, rooms.Default(), store, audit.NopAuditLogger{}, time.Now())
	return r, cfg.Data.MeetingsFile
}

func request(r http.Handler, method, path, body string, creds ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if len(creds) == 2 {
		req.SetBasicAuth(creds[0], creds[1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{"subject":"Sync","organizerName":"Anna","startDateUTC":"2025-03-03T09:00:00Z",
  "endDateUTC":"2025-03-03T10:00:00Z","creationDateUTC":"2025-03-01T00:00:00Z","isPrivate":false,"isCancelled":false}`

func TestRoutes_OpenAccess(t *testing.T) {
	r, dataFile := newTestRouter(t, nil)

	assert.Equal(t, "Welcome to the ROOMZ Connector API", request(r, http.MethodGet, "/", "").Body.String())
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/readiness", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/favicon.ico", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/rooms", "").Code)

	w := request(r, http.MethodPost, "/rooms/Room%201/meetings", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(r, http.MethodGet, "/rooms/Room%201/meetings?start=2025-03-03T09:30:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	_, err := os.Stat(dataFile)
	assert.NoError(t, err)

	metricsBody := request(r, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, "roomz_http_requests_total")
	assert.Contains(t, metricsBody, "roomz_meeting_mutations_total")
}

func TestRoutes_BasicAuth(t *testing.T) {
	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Security.APIUsername = "display"
		c.Security.APIPassword = "Roomz1234$"
	})

	w := request(r, http.MethodGet, "/rooms", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="Meeting API"`, w.Header().Get("WWW-Authenticate"))

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodPost, "/rooms/Room%201/meetings", createBody, "display", "wrong").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/rooms", "", "display", "Roomz1234$").Code)
	assert.Equal(t, http.StatusCreated, request(r, http.MethodPost, "/rooms/Room%201/meetings", createBody, "display", "Roomz1234$").Code)

	// health endpoints stay public
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/", "").Code)
}

func TestRoutes_CORS(t *testing.T) {
	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Security.EnableCORS = true
		c.Security.CORSOrigin = "https://wall.example"
	})

	w := request(r, http.MethodOptions, "/rooms/Room%201/meetings", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://wall.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(r, http.MethodGet, "/rooms", "")
	assert.Equal(t, "https://wall.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_NoCORSByDefault(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := request(r, http.MethodGet, "/rooms", "")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
