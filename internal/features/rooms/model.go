package rooms

import "time"

// WatchRoom is a scheduled group watch slot. Rooms are static placeholder
// data for now; realtime chat is not part of this service.
type WatchRoom struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	MediaID     int64     `json:"mediaId"`
	MediaType   string    `json:"mediaType"`
	Host        string    `json:"host"`
	Capacity    int       `json:"capacity"`
	Attending   int       `json:"attending"`
	ScheduledAt time.Time `json:"scheduledAt"`
}
