package communities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community is a topic group users join to post in.
type Community struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	CreatorID   primitive.ObjectID   `bson:"creatorId" json:"creatorId"`
	Members     []primitive.ObjectID `bson:"members" json:"-"`
	MemberCount int                  `bson:"memberCount" json:"memberCount"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PostComment is embedded in its parent post.
type PostComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is one member's post inside a community.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommunityID primitive.ObjectID `bson:"communityId" json:"communityId"`
	AuthorID    primitive.ObjectID `bson:"authorId" json:"authorId"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Comments    []PostComment      `bson:"comments" json:"comments"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Request DTOs

type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=60"`
	Description string `json:"description" binding:"max=500"`
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type CreatePostCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type ListQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}

// Response DTOs

type CommunityResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatorID   primitive.ObjectID `json:"creatorId"`
	MemberCount int                `json:"memberCount"`
	IsMember    bool               `json:"isMember"`
	CreatedAt   time.Time          `json:"createdAt"`
}
