package users

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetMe godoc
// @Summary Get own profile
// @Description Get the authenticated user's profile with points, level, badges and streak
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=ProfileResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*User)

	response.Success(c, buildProfileResponse(currentUser))
}

// GetProfile godoc
// @Summary Get user profile
// @Description Get a user's public profile by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse{data=ProfileResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	response.Success(c, buildProfileResponse(user))
}

func buildProfileResponse(user *User) ProfileResponse {
	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}
	return ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Points:      user.Points,
		Level:       user.Level,
		Badges:      badges,
		Streak:      user.Streak,
		ReviewCount: user.ReviewCount,
		CreatedAt:   user.CreatedAt,
	}
}
