package repository

import (
	"context"
	"fmt"

	"github.com/annazecevic/music-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlanRepository interface {
	List(ctx context.Context) ([]domain.SubscriptionPlan, error)
	FindByID(ctx context.Context, id string) (*domain.SubscriptionPlan, error)
	// EnsureByName inserts the plan unless one with the same name exists.
	EnsureByName(ctx context.Context, plan *domain.SubscriptionPlan) (bool, error)
}

type planRepository struct {
	collection *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) PlanRepository {
	collection := db.Collection("subscription_plans")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})

	return &planRepository{collection: collection}
}

func (r *planRepository) List(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	plans, err := findAll[domain.SubscriptionPlan](ctx, r.collection, bson.M{}, sortedBy("duration_in_days", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (r *planRepository) FindByID(ctx context.Context, id string) (*domain.SubscriptionPlan, error) {
	return findOne[domain.SubscriptionPlan](ctx, r.collection, bson.M{"id": id}, "subscription plan", id)
}

func (r *planRepository) EnsureByName(ctx context.Context, plan *domain.SubscriptionPlan) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"name": plan.Name},
		bson.M{"$setOnInsert": plan},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
	}
	return result.UpsertedCount > 0, nil
}
