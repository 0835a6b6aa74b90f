package repository

import (
	"context"
	"fmt"

	"github.com/annazecevic/music-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrackRepository interface {
	Create(ctx context.Context, t *domain.Track) error
	FindByID(ctx context.Context, id string) (*domain.Track, error)
	FindByFileURL(ctx context.Context, fileURL string) (*domain.Track, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Track, error)
	List(ctx context.Context) ([]domain.Track, error)
	Search(ctx context.Context, query string) ([]domain.Track, error)
}

type trackRepository struct {
	collection *mongo.Collection
}

func NewTrackRepository(db *mongo.Database) TrackRepository {
	collection := db.Collection("tracks")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{
			// file_url is unique once assigned; tracks without a file are not indexed
			Keys: bson.D{{Key: "file_url", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"file_url": bson.M{"$type": "string"}}),
		},
	})

	return &trackRepository{collection: collection}
}

func (r *trackRepository) Create(ctx context.Context, t *domain.Track) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflict("track", "file url already assigned")
		}
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

func (r *trackRepository) FindByID(ctx context.Context, id string) (*domain.Track, error) {
	return findOne[domain.Track](ctx, r.collection, bson.M{"id": id}, "track", id)
}

func (r *trackRepository) FindByFileURL(ctx context.Context, fileURL string) (*domain.Track, error) {
	return findOne[domain.Track](ctx, r.collection, bson.M{"file_url": fileURL}, "track", fileURL)
}

func (r *trackRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Track, error) {
	if len(ids) == 0 {
		return []domain.Track{}, nil
	}
	tracks, err := findAll[domain.Track](ctx, r.collection, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	return tracks, nil
}

func (r *trackRepository) List(ctx context.Context) ([]domain.Track, error) {
	tracks, err := findAll[domain.Track](ctx, r.collection, bson.M{}, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

// Search matches the query as a case-insensitive substring of title, artist
// or genres.
func (r *trackRepository) Search(ctx context.Context, query string) ([]domain.Track, error) {
	pattern := containsInsensitive(query)
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"artist": pattern},
		bson.M{"genres": pattern},
	}}

	tracks, err := findAll[domain.Track](ctx, r.collection, filter, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	return tracks, nil
}
