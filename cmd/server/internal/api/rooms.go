package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/roomz/cmd/server/internal/domain/rooms"
)

// HandleListRooms 返回房间目录
// GET /rooms
func HandleListRooms(catalog *rooms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": catalog.List()})
	}
}
