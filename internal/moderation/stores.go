package moderation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/features/reviews"
	"github.com/adist/cinecircle/internal/features/users"
)

// ReviewStore is what the pipeline needs from review persistence.
// Implemented by reviews.Repository; tests use in-memory fakes.
type ReviewStore interface {
	GetByID(ctx context.Context, reviewID primitive.ObjectID) (*reviews.Review, error)
	GetRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int) ([]reviews.Review, error)
	SetModerationOutcome(ctx context.Context, reviewID primitive.ObjectID, removed bool, removalReason string, flagged bool, flagReason string, moderatedBy string) error
	RemoveReply(ctx context.Context, reviewID, replyID primitive.ObjectID) error
	FindUnmoderated(ctx context.Context, limit int) ([]reviews.Review, error)
	ReviewRank(ctx context.Context, mediaID int64, mediaType string, createdAt time.Time) (int, error)
	CountByAuthorSince(ctx context.Context, authorID primitive.ObjectID, since time.Time) (int, error)
}

// UserStore is what the pipeline needs from user persistence.
type UserStore interface {
	GetByID(ctx context.Context, userID primitive.ObjectID) (*users.User, error)
	ApplyPointsDelta(ctx context.Context, userID primitive.ObjectID, delta int) error
	SetLevel(ctx context.Context, userID primitive.ObjectID, level int) error
	AddBadges(ctx context.Context, userID primitive.ObjectID, badges []string) error
	SetStreak(ctx context.Context, userID primitive.ObjectID, streak users.Streak) error
	SetDuplicateContent(ctx context.Context, userID primitive.ObjectID) error
	BumpSpamScore(ctx context.Context, userID primitive.ObjectID, by int) error
}
