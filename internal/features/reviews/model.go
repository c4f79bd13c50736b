package reviews

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media formats a review can target.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Sort constants
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTop    = "top"
)

// Reply is embedded in its parent review. Replies removed by moderation are
// pulled out of the array, not soft-deleted.
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes  []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// Review is one user's take on one media item. A user holds at most one
// review per (mediaId, mediaType), enforced by a unique index.
type Review struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MediaID   int64                `bson:"mediaId" json:"mediaId"`
	MediaType string               `bson:"mediaType" json:"mediaType"`
	Genres    []string             `bson:"genres" json:"genres"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Rating    int                  `bson:"rating" json:"rating"`
	Spoiler   bool                 `bson:"spoiler" json:"spoiler"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes  []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
	Replies   []Reply              `bson:"replies" json:"replies"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`

	// Moderation outcome, written only by the pipeline (or a human
	// moderator), never by the submitting client.
	IsRemoved     bool       `bson:"isRemoved" json:"isRemoved"`
	RemovalReason string     `bson:"removalReason,omitempty" json:"removalReason,omitempty"`
	IsFlagged     bool       `bson:"isFlagged" json:"isFlagged"`
	FlagReason    string     `bson:"flagReason,omitempty" json:"flagReason,omitempty"`
	ModeratedAt   *time.Time `bson:"moderatedAt,omitempty" json:"moderatedAt,omitempty"`
	ModeratedBy   string     `bson:"moderatedBy,omitempty" json:"moderatedBy,omitempty"`
}

// Request DTOs

type CreateReviewRequest struct {
	MediaID   int64    `json:"mediaId" binding:"required"`
	MediaType string   `json:"mediaType" binding:"required,oneof=movie tv"`
	Genres    []string `json:"genres"`
	Title     string   `json:"title" binding:"max=200"`
	Content   string   `json:"content" binding:"required,min=1,max=10000"`
	Rating    int      `json:"rating" binding:"required,min=1,max=10"`
	Spoiler   bool     `json:"spoiler"`
}

type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type VoteRequest struct {
	Action string `json:"action" binding:"required,oneof=like dislike clear"`
}

type ReviewListQuery struct {
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
	Sort  string `form:"sort,default=newest"`
}

// Response DTOs

type ReviewResponse struct {
	ID           primitive.ObjectID `json:"id"`
	MediaID      int64              `json:"mediaId"`
	MediaType    string             `json:"mediaType"`
	AuthorID     primitive.ObjectID `json:"authorId"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	Rating       int                `json:"rating"`
	Spoiler      bool               `json:"spoiler"`
	LikeCount    int                `json:"likeCount"`
	DislikeCount int                `json:"dislikeCount"`
	Replies      []Reply            `json:"replies"`
	IsFlagged    bool               `json:"isFlagged"`
	CreatedAt    time.Time          `json:"createdAt"`
}

type SubmitReviewResponse struct {
	Review        ReviewResponse `json:"review"`
	PointsAwarded int            `json:"pointsAwarded"`
	Removed       bool           `json:"removed"`
	Flagged       bool           `json:"flagged"`
	Reason        string         `json:"reason,omitempty"`
}
