package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/houzhh15/roomz/cmd/server/internal/api"
	"github.com/houzhh15/roomz/cmd/server/internal/audit"
	"github.com/houzhh15/roomz/cmd/server/internal/config"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/rooms"
	"github.com/houzhh15/roomz/cmd/server/internal/middleware"
)

const authRealm = "Meeting API"

func setupRoutes(r *gin.Engine, cfg *config.Config, catalog *rooms.Catalog, store *meetings.Store, auditor audit.AuditLogger, startTime time.Time) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(cfg.Security.CORSOrigin))
	}

	// ========== Public ==========
	r.GET("/", api.HandleWelcome())
	r.GET("/favicon.ico", api.HandleFavicon())
	r.GET("/health", api.HandleHealth(cfg.Server.Env, startTime))
	r.GET("/readiness", api.HandleReadiness(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ========== Rooms & Meetings (Basic Auth) ==========
	authed := r.Group("/", middleware.BasicAuth(cfg.Security.APIUsername, cfg.Security.APIPassword, authRealm))
	authed.GET("/rooms", api.HandleListRooms(catalog))
	authed.GET("/rooms/:roomId/meetings", api.HandleListMeetings(store))
	authed.POST("/rooms/:roomId/meetings", api.HandleCreateMeeting(store, auditor))
	authed.PUT("/rooms/:roomId/meetings/:meetingId", api.HandleUpdateMeeting(store, auditor))
}
