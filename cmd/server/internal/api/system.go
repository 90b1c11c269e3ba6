package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
)

const (
	serviceName    = "roomz-meeting-api"
	serviceVersion = "1.0.0"
	welcomeMessage = "Welcome to the ROOMZ Connector API"
)

// favicon is the header of an empty .ico so browsers stop asking.
var favicon = []byte{
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10, 0x10, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x28, 0x01, 0x00, 0x00,
}

// HealthCheckResponse represents the response from the health check endpoint
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Env       string    `json:"env"`
}

// ReadinessCheckResponse represents the response from the readiness check endpoint
type ReadinessCheckResponse struct {
	Ready       bool             `json:"ready"`
	StoreSource string           `json:"store_source"` // data, seed or none
	Meetings    int              `json:"meetings"`
	Checks      []ReadinessCheck `json:"checks"`
	Timestamp   time.Time        `json:"timestamp"`
}

// ReadinessCheck represents a single readiness check
type ReadinessCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok" or "fail"
	Error  string `json:"error,omitempty"`
}

// HandleWelcome GET /
func HandleWelcome() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, welcomeMessage)
	}
}

// HandleFavicon GET /favicon.ico
func HandleFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "image/x-icon", favicon)
	}
}

// HandleHealth returns the liveness check handler
func HandleHealth(env string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthCheckResponse{
			Status:    "ok",
			Service:   serviceName,
			Version:   serviceVersion,
			Uptime:    time.Since(startTime).String(),
			Timestamp: time.Now(),
			Env:       env,
		})
	}
}

// HandleReadiness returns the readiness check handler. The store is ready when
// its last persist succeeded and the data directory is reachable.
func HandleReadiness(store *meetings.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := []ReadinessCheck{}
		allReady := true

		persistCheck := ReadinessCheck{Name: "store_persist", Status: "ok"}
		if err := store.PersistErr(); err != nil {
			persistCheck.Status = "fail"
			persistCheck.Error = err.Error()
			allReady = false
		}
		checks = append(checks, persistCheck)

		if path := store.DataPath(); path != "" {
			dirCheck := ReadinessCheck{Name: "data_dir", Status: "ok"}
			if !checkDataDirWritable(filepath.Dir(path)) {
				dirCheck.Status = "fail"
				dirCheck.Error = "data directory not accessible"
				allReady = false
			}
			checks = append(checks, dirCheck)
		}

		httpStatus := http.StatusOK
		if !allReady {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, ReadinessCheckResponse{
			Ready:       allReady,
			StoreSource: store.Source(),
			Meetings:    store.Len(),
			Checks:      checks,
			Timestamp:   time.Now(),
		})
	}
}

// checkDataDirWritable reports whether dir exists or can be created on the
// first persist.
func checkDataDirWritable(dir string) bool {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			return info.IsDir()
		}
		if !os.IsNotExist(err) {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
