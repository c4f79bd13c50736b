package reviews

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	reviewGroup := router.Group("/reviews")
	{
		reviewGroup.POST("", authMiddleware, handler.SubmitReview)
		reviewGroup.GET("/:id", handler.GetReview)
		reviewGroup.DELETE("/:id", authMiddleware, handler.DeleteReview)
		reviewGroup.POST("/:id/vote", authMiddleware, handler.Vote)
		reviewGroup.POST("/:id/replies", authMiddleware, handler.AddReply)
	}

	mediaGroup := router.Group("/media")
	{
		mediaGroup.GET("/:mediaType/:mediaId/reviews", handler.ListReviews)
	}
}
