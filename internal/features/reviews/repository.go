package reviews

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgerrors "github.com/adist/cinecircle/pkg/errors"
)

type Repository struct {
	reviewsCollection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	reviewsCollection := db.Collection("reviews")

	reviewsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "mediaId", Value: 1},
				{Key: "mediaType", Value: 1},
				{Key: "authorId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "mediaId", Value: 1},
				{Key: "mediaType", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "authorId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "moderatedAt", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
	})

	return &Repository{reviewsCollection: reviewsCollection}
}

// Create inserts a new review. One review per (mediaId, mediaType, author) is
// enforced by the unique index; a second attempt maps to ErrDuplicate.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	if review.Likes == nil {
		review.Likes = []primitive.ObjectID{}
	}
	if review.Dislikes == nil {
		review.Dislikes = []primitive.ObjectID{}
	}
	if review.Replies == nil {
		review.Replies = []Reply{}
	}

	_, err := r.reviewsCollection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a review by ID
func (r *Repository) GetByID(ctx context.Context, reviewID primitive.ObjectID) (*Review, error) {
	var review Review
	err := r.reviewsCollection.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// GetByMedia retrieves reviews for one media item with pagination. Removed
// reviews never show up in listings.
func (r *Repository) GetByMedia(ctx context.Context, mediaID int64, mediaType, sort string, page, limit int) ([]Review, int64, error) {
	filter := bson.M{
		"mediaId":   mediaID,
		"mediaType": mediaType,
		"isRemoved": false,
	}

	var sortOrder bson.D
	switch sort {
	case SortOldest:
		sortOrder = bson.D{{Key: "createdAt", Value: 1}}
	case SortTop:
		sortOrder = bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}
	default: // newest
		sortOrder = bson.D{{Key: "createdAt", Value: -1}}
	}

	opts := options.Find().
		SetSort(sortOrder).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.reviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var result []Review
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}

	total, err := r.reviewsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// GetRecentByAuthor retrieves the author's newest reviews, removed ones
// included: duplicate detection has to see what moderation already pulled.
func (r *Repository) GetRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int) ([]Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.reviewsCollection.Find(ctx, bson.M{"authorId": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []Review
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RecentReviewContents returns just the content of the author's newest
// reviews, for the pre-submission similarity gate.
func (r *Repository) RecentReviewContents(ctx context.Context, authorID primitive.ObjectID, limit int) ([]string, error) {
	recent, err := r.GetRecentByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(recent))
	for i := range recent {
		contents = append(contents, recent[i].Content)
	}
	return contents, nil
}

// ReplyContents returns the content of every reply on one review.
func (r *Repository) ReplyContents(ctx context.Context, reviewID primitive.ObjectID) ([]string, error) {
	review, err := r.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(review.Replies))
	for i := range review.Replies {
		contents = append(contents, review.Replies[i].Content)
	}
	return contents, nil
}

// AddReply appends a reply to its parent review
func (r *Repository) AddReply(ctx context.Context, reviewID primitive.ObjectID, reply *Reply) error {
	reply.ID = primitive.NewObjectID()
	reply.CreatedAt = time.Now()
	if reply.Likes == nil {
		reply.Likes = []primitive.ObjectID{}
	}
	if reply.Dislikes == nil {
		reply.Dislikes = []primitive.ObjectID{}
	}

	result, err := r.reviewsCollection.UpdateOne(ctx,
		bson.M{"_id": reviewID, "isRemoved": false},
		bson.M{
			"$push": bson.M{"replies": reply},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// RemoveReply pulls a moderated reply out of the parent's array
func (r *Repository) RemoveReply(ctx context.Context, reviewID, replyID primitive.ObjectID) error {
	_, err := r.reviewsCollection.UpdateOne(ctx,
		bson.M{"_id": reviewID},
		bson.M{
			"$pull": bson.M{"replies": bson.M{"_id": replyID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// Vote applies a like, dislike or clear from one user. A like always clears
// any standing dislike and vice versa, so a user holds at most one vote.
func (r *Repository) Vote(ctx context.Context, reviewID, userID primitive.ObjectID, action string) error {
	var update bson.M
	switch action {
	case "like":
		update = bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$pull":     bson.M{"dislikes": userID},
		}
	case "dislike":
		update = bson.M{
			"$addToSet": bson.M{"dislikes": userID},
			"$pull":     bson.M{"likes": userID},
		}
	default: // clear
		update = bson.M{
			"$pull": bson.M{"likes": userID, "dislikes": userID},
		}
	}
	update["$set"] = bson.M{"updatedAt": time.Now()}

	result, err := r.reviewsCollection.UpdateOne(ctx,
		bson.M{"_id": reviewID, "isRemoved": false},
		update,
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// SetModerationOutcome stamps the pipeline verdict onto the review
func (r *Repository) SetModerationOutcome(ctx context.Context, reviewID primitive.ObjectID, removed bool, removalReason string, flagged bool, flagReason string, moderatedBy string) error {
	now := time.Now()
	_, err := r.reviewsCollection.UpdateOne(ctx,
		bson.M{"_id": reviewID},
		bson.M{"$set": bson.M{
			"isRemoved":     removed,
			"removalReason": removalReason,
			"isFlagged":     flagged,
			"flagReason":    flagReason,
			"moderatedAt":   now,
			"moderatedBy":   moderatedBy,
			"updatedAt":     now,
		}},
	)
	return err
}

// FindUnmoderated returns the oldest reviews the pipeline has not yet
// stamped, skipping already-removed ones.
func (r *Repository) FindUnmoderated(ctx context.Context, limit int) ([]Review, error) {
	filter := bson.M{
		"moderatedAt": bson.M{"$exists": false},
		"isRemoved":   false,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.reviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []Review
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ReviewRank returns the 1-based position of a review among all reviews of
// the same media item, ordered by creation time. Rank 1 is the first review.
func (r *Repository) ReviewRank(ctx context.Context, mediaID int64, mediaType string, createdAt time.Time) (int, error) {
	earlier, err := r.reviewsCollection.CountDocuments(ctx, bson.M{
		"mediaId":   mediaID,
		"mediaType": mediaType,
		"createdAt": bson.M{"$lt": createdAt},
	})
	if err != nil {
		return 0, err
	}
	return int(earlier) + 1, nil
}

// CountByAuthorSince counts the author's submissions newer than since,
// removed ones included. Feeds the credibility burst factor, which cares
// about submission volume in a window, not lifetime output.
func (r *Repository) CountByAuthorSince(ctx context.Context, authorID primitive.ObjectID, since time.Time) (int, error) {
	count, err := r.reviewsCollection.CountDocuments(ctx, bson.M{
		"authorId":  authorID,
		"createdAt": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Delete removes a review permanently. Owner-initiated only; moderation uses
// SetModerationOutcome instead so the record stays auditable.
func (r *Repository) Delete(ctx context.Context, reviewID primitive.ObjectID) error {
	result, err := r.reviewsCollection.DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
