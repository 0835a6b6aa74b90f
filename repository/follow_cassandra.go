package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/music-service/logger"
	"github.com/gocql/gocql"
)

// Schema expected by the Cassandra follow store. Each direction is its own
// table partitioned by the lookup key.
const FollowSchemaCQL = `
CREATE TABLE IF NOT EXISTS follows_by_follower (
	follower_id text,
	followed_id text,
	created_at timestamp,
	PRIMARY KEY (follower_id, followed_id)
);
CREATE TABLE IF NOT EXISTS follows_by_followed (
	followed_id text,
	follower_id text,
	created_at timestamp,
	PRIMARY KEY (followed_id, follower_id)
);`

type cassandraFollowRepository struct {
	session *gocql.Session
}

func NewCassandraFollowRepository(session *gocql.Session) FollowRepository {
	return &cassandraFollowRepository{session: session}
}

func (r *cassandraFollowRepository) Add(ctx context.Context, followerID, followedID string) error {
	now := time.Now().UTC()

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO follows_by_follower (follower_id, followed_id, created_at) VALUES (?, ?, ?)`,
		followerID, followedID, now)
	batch.Query(`INSERT INTO follows_by_followed (followed_id, follower_id, created_at) VALUES (?, ?, ?)`,
		followedID, followerID, now)

	if err := r.session.ExecuteBatch(batch); err != nil {
		logger.Error(logger.EventDBError, "Error creating follow edge", logger.Fields(
			"follower_id", followerID,
			"followed_id", followedID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

func (r *cassandraFollowRepository) Remove(ctx context.Context, followerID, followedID string) error {
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM follows_by_follower WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	batch.Query(`DELETE FROM follows_by_followed WHERE followed_id = ? AND follower_id = ?`, followedID, followerID)

	if err := r.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *cassandraFollowRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var id string
	err := r.session.Query(`SELECT followed_id FROM follows_by_follower WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).WithContext(ctx).Scan(&id)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return true, nil
}

func (r *cassandraFollowRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	return r.scanIDs(ctx, `SELECT followed_id FROM follows_by_follower WHERE follower_id = ?`, followerID)
}

func (r *cassandraFollowRepository) FollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	return r.scanIDs(ctx, `SELECT follower_id FROM follows_by_followed WHERE followed_id = ?`, followedID)
}

func (r *cassandraFollowRepository) scanIDs(ctx context.Context, query, key string) ([]string, error) {
	iter := r.session.Query(query, key).WithContext(ctx).Iter()

	ids := make([]string, 0)
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		logger.Error(logger.EventDBError, "Error reading follow edges", logger.Fields(
			"key", key,
			"error", err.Error(),
		))
		return nil, fmt.Errorf("failed to fetch follow edges: %w", err)
	}
	return ids, nil
}
