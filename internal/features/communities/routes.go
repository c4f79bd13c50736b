package communities

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc, optionalAuth gin.HandlerFunc) {
	group := router.Group("/communities")
	{
		group.POST("", authMiddleware, handler.CreateCommunity)
		group.GET("", optionalAuth, handler.ListCommunities)
		group.GET("/:id", optionalAuth, handler.GetCommunity)
		group.POST("/:id/join", authMiddleware, handler.JoinCommunity)
		group.POST("/:id/leave", authMiddleware, handler.LeaveCommunity)
		group.POST("/:id/posts", authMiddleware, handler.CreatePost)
		group.GET("/:id/posts", handler.ListPosts)
	}

	postGroup := router.Group("/posts")
	{
		postGroup.POST("/:id/comments", authMiddleware, handler.AddPostComment)
	}
}
