package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowRepository stores directed follower -> followed edges, indexed on
// both sides so either direction is a single lookup.
type FollowRepository interface {
	Add(ctx context.Context, followerID, followedID string) error
	Remove(ctx context.Context, followerID, followedID string) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	FollowerIDs(ctx context.Context, followedID string) ([]string, error)
}

type followRepository struct {
	collection *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) FollowRepository {
	collection := db.Collection("follows")

	ensureIndexes(collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "followed_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "followed_id", Value: 1}, {Key: "follower_id", Value: 1}},
		},
	})

	return &followRepository{collection: collection}
}

func (r *followRepository) Add(ctx context.Context, followerID, followedID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	edge := domain.Follow{FollowerID: followerID, FollowedID: followedID, CreatedAt: time.Now().UTC()}
	if _, err := r.collection.InsertOne(ctx, edge); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		logger.Error(logger.EventDBError, "Error creating follow edge", logger.Fields(
			"follower_id", followerID,
			"followed_id", followedID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

func (r *followRepository) Remove(ctx context.Context, followerID, followedID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"follower_id": followerID, "followed_id": followedID}); err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"follower_id": followerID, "followed_id": followedID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return n > 0, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	edges, err := findAll[domain.Follow](ctx, r.collection, bson.M{"follower_id": followerID}, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch following: %w", err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowedID)
	}
	return ids, nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	edges, err := findAll[domain.Follow](ctx, r.collection, bson.M{"followed_id": followedID}, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followers: %w", err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return ids, nil
}
