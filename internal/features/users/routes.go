package users

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	group := router.Group("/users")
	{
		group.GET("/me", authMiddleware, handler.GetMe)
		group.GET("/:id", handler.GetProfile)
	}
}
