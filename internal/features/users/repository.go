package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	usersCollection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	usersCollection := db.Collection("users")

	usersCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "points.total", Value: -1}},
		},
	})

	return &Repository{usersCollection: usersCollection}
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, userID primitive.ObjectID) (*User, error) {
	var user User
	err := r.usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.usersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs batch fetches users
func (r *Repository) GetByIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]User, error) {
	if len(userIDs) == 0 {
		return []User{}, nil
	}

	cursor, err := r.usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []User
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyPointsDelta adds delta to the user's total and available points and
// re-clamps both to zero afterwards. Points never go negative, whatever the
// moderation penalty was.
func (r *Repository) ApplyPointsDelta(ctx context.Context, userID primitive.ObjectID, delta int) error {
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"points.total": delta, "points.available": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}

	if delta < 0 {
		_, _ = r.usersCollection.UpdateOne(ctx,
			bson.M{"_id": userID, "points.total": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"points.total": 0}},
		)
		_, _ = r.usersCollection.UpdateOne(ctx,
			bson.M{"_id": userID, "points.available": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"points.available": 0}},
		)
	}

	return nil
}

// SetLevel raises the user's level. Levels never go down, so the update is
// guarded on the stored value being lower.
func (r *Repository) SetLevel(ctx context.Context, userID primitive.ObjectID, level int) error {
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID, "level": bson.M{"$lt": level}},
		bson.M{"$set": bson.M{"level": level, "updatedAt": time.Now()}},
	)
	return err
}

// AddBadges grants badges, each at most once
func (r *Repository) AddBadges(ctx context.Context, userID primitive.ObjectID, badges []string) error {
	if len(badges) == 0 {
		return nil
	}
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"badges": bson.M{"$each": badges}},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// SetStreak stores the recomputed streak
func (r *Repository) SetStreak(ctx context.Context, userID primitive.ObjectID, streak Streak) error {
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"streak": streak, "updatedAt": time.Now()}},
	)
	return err
}

// SetDuplicateContent permanently marks the user as having posted duplicate
// content. There is no unset path.
func (r *Repository) SetDuplicateContent(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"hasDuplicateContent": true, "updatedAt": time.Now()}},
	)
	return err
}

// BumpSpamScore raises the running spam estimate, capped at 100.
func (r *Repository) BumpSpamScore(ctx context.Context, userID primitive.ObjectID, by int) error {
	_, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"spamScore": by},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}

	_, _ = r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": userID, "spamScore": bson.M{"$gt": 100}},
		bson.M{"$set": bson.M{"spamScore": 100}},
	)
	return nil
}

// RecordReviewActivity folds a new review into the user's history
// aggregates: counters, genre/format sets and the running length mean.
func (r *Repository) RecordReviewActivity(ctx context.Context, userID primitive.ObjectID, genres []string, format string, contentLength int) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	count := user.ReviewCount + 1
	avgLen := (user.AverageReviewLength*float64(user.ReviewCount) + float64(contentLength)) / float64(count)

	update := bson.M{
		"$set": bson.M{
			"reviewCount":         count,
			"averageReviewLength": avgLen,
			"updatedAt":           time.Now(),
		},
		"$addToSet": bson.M{
			"reviewedFormats": format,
		},
	}
	if len(genres) > 0 {
		update["$addToSet"].(bson.M)["reviewedGenres"] = bson.M{"$each": genres}
	}

	_, err = r.usersCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}
