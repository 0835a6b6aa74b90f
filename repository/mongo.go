package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	queryTimeout = 5 * time.Second
	listTimeout  = 10 * time.Second
	indexTimeout = 10 * time.Second
)

func ensureIndexes(col *mongo.Collection, indexes []mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn(logger.EventDBError, "Failed to create indexes", logger.Fields(
			"collection", col.Name(),
			"error", err.Error(),
		))
	}
}

// findOne decodes a single document, mapping a miss to a NotFoundError.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, entity, key string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out T
	err := col.FindOne(ctx, filter).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound(entity, key)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", entity, err)
	}
	return &out, nil
}

// findAll never returns a nil slice.
func findAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*findOpts) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, toFindOptions(opts)...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsInsensitive(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}
