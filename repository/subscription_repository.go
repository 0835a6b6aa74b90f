package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriptionRepository interface {
	// FindActiveByUserID returns nil, nil when the user has no active record.
	FindActiveByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error)
	Create(ctx context.Context, sub *domain.UserSubscription) error
	// Extend writes the new end date and payment ids only if the stored
	// version still equals expectedVersion.
	Extend(ctx context.Context, sub *domain.UserSubscription, expectedVersion int64) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) SubscriptionRepository {
	collection := db.Collection("user_subscriptions")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			// at most one active subscription per user
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("one_active_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "end_date", Value: 1}}},
	})

	return &subscriptionRepository{collection: collection}
}

func (r *subscriptionRepository) FindActiveByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sub domain.UserSubscription
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error(logger.EventDBError, "Error fetching active subscription", logger.Fields(
			"user_id", userID,
			"error", err.Error(),
		))
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.UserSubscription) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflict("subscription", "user already has an active subscription")
		}
		logger.Error(logger.EventDBError, "Error creating subscription", logger.Fields(
			"user_id", sub.UserID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Extend(ctx context.Context, sub *domain.UserSubscription, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": sub.ID, "is_active": true, "version": expectedVersion}
	update := bson.M{"$set": bson.M{
		"end_date":    sub.EndDate,
		"payment_ids": sub.PaymentIDs,
		"version":     sub.Version,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Error(logger.EventDBError, "Error extending subscription", logger.Fields(
			"subscription_id", sub.ID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewConflict("subscription", "modified concurrently")
	}
	return nil
}

func (r *subscriptionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := bson.M{"is_active": true, "end_date": bson.M{"$lte": now}}
	update := bson.M{
		"$set": bson.M{"is_active": false},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired subscriptions: %w", err)
	}
	return result.ModifiedCount, nil
}
