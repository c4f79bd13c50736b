package communities

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
	communitiesCollection *mongo.Collection
	postsCollection       *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	communitiesCollection := db.Collection("communities")
	postsCollection := db.Collection("posts")

	communitiesCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "memberCount", Value: -1}},
		},
	})

	postsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "communityId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	})

	return &Repository{
		communitiesCollection: communitiesCollection,
		postsCollection:       postsCollection,
	}
}

// Create inserts a community with the creator as first member
func (r *Repository) Create(ctx context.Context, community *Community) error {
	community.ID = primitive.NewObjectID()
	community.CreatedAt = time.Now()
	community.UpdatedAt = community.CreatedAt
	community.Members = []primitive.ObjectID{community.CreatorID}
	community.MemberCount = 1

	_, err := r.communitiesCollection.InsertOne(ctx, community)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a community by ID
func (r *Repository) GetByID(ctx context.Context, communityID primitive.ObjectID) (*Community, error) {
	var community Community
	err := r.communitiesCollection.FindOne(ctx, bson.M{"_id": communityID}).Decode(&community)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &community, nil
}

// List retrieves communities ordered by member count
func (r *Repository) List(ctx context.Context, page, limit int) ([]Community, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "memberCount", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.communitiesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var result []Community
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}

	total, err := r.communitiesCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// Join adds a user to the member set. Idempotent: the count only moves when
// the membership actually changed.
func (r *Repository) Join(ctx context.Context, communityID, userID primitive.ObjectID) error {
	result, err := r.communitiesCollection.UpdateOne(ctx,
		bson.M{"_id": communityID, "members": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"members": userID},
			"$inc":      bson.M{"memberCount": 1},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either unknown community or already a member.
		if _, getErr := r.GetByID(ctx, communityID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Leave removes a user from the member set, idempotent like Join
func (r *Repository) Leave(ctx context.Context, communityID, userID primitive.ObjectID) error {
	result, err := r.communitiesCollection.UpdateOne(ctx,
		bson.M{"_id": communityID, "members": userID},
		bson.M{
			"$pull": bson.M{"members": userID},
			"$inc":  bson.M{"memberCount": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, getErr := r.GetByID(ctx, communityID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// IsMember checks membership
func (r *Repository) IsMember(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	count, err := r.communitiesCollection.CountDocuments(ctx, bson.M{
		"_id":     communityID,
		"members": userID,
	})
	return count > 0, err
}

// CreatePost inserts a post into a community
func (r *Repository) CreatePost(ctx context.Context, post *Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Comments == nil {
		post.Comments = []PostComment{}
	}

	_, err := r.postsCollection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID
func (r *Repository) GetPostByID(ctx context.Context, postID primitive.ObjectID) (*Post, error) {
	var post Post
	err := r.postsCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByCommunity retrieves a community's posts, newest first
func (r *Repository) GetPostsByCommunity(ctx context.Context, communityID primitive.ObjectID, page, limit int) ([]Post, int64, error) {
	filter := bson.M{"communityId": communityID}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.postsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var result []Post
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}

	total, err := r.postsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// AddPostComment appends a comment to its parent post
func (r *Repository) AddPostComment(ctx context.Context, postID primitive.ObjectID, comment *PostComment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	result, err := r.postsCollection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": comment},
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
