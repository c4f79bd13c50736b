package rooms

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adist/cinecircle/internal/pkg/response"
)

type Handler struct {
	rooms []WatchRoom
}

func NewHandler() *Handler {
	now := time.Now().Truncate(time.Hour)
	return &Handler{
		rooms: []WatchRoom{
			{
				ID:          "friday-night-classics",
				Title:       "Friday Night Classics",
				MediaID:     238,
				MediaType:   "movie",
				Host:        "cinecircle",
				Capacity:    50,
				Attending:   12,
				ScheduledAt: now.Add(48 * time.Hour),
			},
			{
				ID:          "weekend-binge",
				Title:       "Weekend Series Binge",
				MediaID:     1396,
				MediaType:   "tv",
				Host:        "cinecircle",
				Capacity:    100,
				Attending:   37,
				ScheduledAt: now.Add(72 * time.Hour),
			},
			{
				ID:          "midnight-horror",
				Title:       "Midnight Horror Marathon",
				MediaID:     694,
				MediaType:   "movie",
				Host:        "cinecircle",
				Capacity:    30,
				Attending:   8,
				ScheduledAt: now.Add(96 * time.Hour),
			},
		},
	}
}

// ListRooms godoc
// @Summary List watch rooms
// @Description Get the upcoming watch-room schedule
// @Tags rooms
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=[]WatchRoom}
// @Router /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	response.Success(c, h.rooms)
}

// GetRoom godoc
// @Summary Get watch room
// @Description Get one watch room by its slug
// @Tags rooms
// @Produce json
// @Param id path string true "Room slug"
// @Success 200 {object} response.SuccessResponse{data=WatchRoom}
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{id} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	id := c.Param("id")
	for i := range h.rooms {
		if h.rooms[i].ID == id {
			response.Success(c, h.rooms[i])
			return
		}
	}
	response.NotFound(c, "Room not found", "ROOM_NOT_FOUND")
}
