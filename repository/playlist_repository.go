package repository

import (
	"context"
	"fmt"

	"github.com/annazecevic/music-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlaylistRepository interface {
	Create(ctx context.Context, p *domain.Playlist) error
	FindByID(ctx context.Context, id string) (*domain.Playlist, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Playlist, error)
	// FindByOwnerIDs requires a non-empty owner set.
	FindByOwnerIDs(ctx context.Context, ownerIDs []string) ([]domain.Playlist, error)
	AddTrack(ctx context.Context, playlistID, trackID string) error
	RemoveTrack(ctx context.Context, playlistID, trackID string) error
	Delete(ctx context.Context, id string) error
}

type playlistRepository struct {
	collection *mongo.Collection
}

func NewPlaylistRepository(db *mongo.Database) PlaylistRepository {
	collection := db.Collection("playlists")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	})

	return &playlistRepository{collection: collection}
}

func (r *playlistRepository) Create(ctx context.Context, p *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if p.TrackIDs == nil {
		p.TrackIDs = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) FindByID(ctx context.Context, id string) (*domain.Playlist, error) {
	return findOne[domain.Playlist](ctx, r.collection, bson.M{"id": id}, "playlist", id)
}

func (r *playlistRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	playlists, err := findAll[domain.Playlist](ctx, r.collection, bson.M{"owner_id": ownerID}, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	return playlists, nil
}

func (r *playlistRepository) FindByOwnerIDs(ctx context.Context, ownerIDs []string) ([]domain.Playlist, error) {
	if len(ownerIDs) == 0 {
		return nil, domain.NewValidation("owner_ids", "must not be empty")
	}
	playlists, err := findAll[domain.Playlist](ctx, r.collection, bson.M{"owner_id": bson.M{"$in": ownerIDs}}, sortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	return playlists, nil
}

func (r *playlistRepository) AddTrack(ctx context.Context, playlistID, trackID string) error {
	return r.updateMembership(ctx, playlistID, bson.M{"$addToSet": bson.M{"track_ids": trackID}})
}

func (r *playlistRepository) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	return r.updateMembership(ctx, playlistID, bson.M{"$pull": bson.M{"track_ids": trackID}})
}

func (r *playlistRepository) updateMembership(ctx context.Context, playlistID string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": playlistID}, update)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFound("playlist", playlistID)
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFound("playlist", id)
	}
	return nil
}
