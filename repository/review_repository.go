package repository

import (
	"context"
	"fmt"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RatingStats struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.TrackReview) error
	FindByTrackID(ctx context.Context, trackID string) ([]domain.TrackReview, error)
	// RatingStats averages the non-null ratings of a track. Count is zero
	// when no review carries a rating.
	RatingStats(ctx context.Context, trackID string) (RatingStats, error)
}

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("track_reviews")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "track_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})

	return &reviewRepository{collection: collection}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.TrackReview) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, review); err != nil {
		logger.Error(logger.EventDBError, "Error creating review", logger.Fields(
			"user_id", review.UserID,
			"track_id", review.TrackID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindByTrackID(ctx context.Context, trackID string) ([]domain.TrackReview, error) {
	reviews, err := findAll[domain.TrackReview](ctx, r.collection, bson.M{"track_id": trackID}, sortedBy("created_at", -1))
	if err != nil {
		logger.Error(logger.EventDBError, "Error fetching reviews by track", logger.Fields(
			"track_id", trackID,
			"error", err.Error(),
		))
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, trackID string) (RatingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "track_id", Value: trackID},
			{Key: "rating", Value: bson.D{{Key: "$type", Value: "number"}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$track_id"},
			{Key: "avgValue", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return RatingStats{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		AvgValue float64 `bson:"avgValue"`
		Count    int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return RatingStats{}, fmt.Errorf("failed to decode aggregation result: %w", err)
	}

	if len(result) == 0 {
		return RatingStats{}, nil
	}
	return RatingStats{Average: result[0].AvgValue, Count: result[0].Count}, nil
}
