package rooms

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	group := router.Group("/rooms")
	{
		group.GET("", handler.ListRooms)
		group.GET("/:id", handler.GetRoom)
	}
}
