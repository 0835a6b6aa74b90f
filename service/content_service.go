package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/repository"
	"github.com/annazecevic/music-service/storage"
	"github.com/google/uuid"
)

type ContentService interface {
	CreateTrack(ctx context.Context, t *domain.Track) error
	// UploadTrack stores the file first and assigns its locator as FileURL.
	UploadTrack(ctx context.Context, t *domain.Track, filename string, file io.Reader, size int64) error
	ListTracks(ctx context.Context) ([]domain.Track, error)
	SearchTracks(ctx context.Context, query string) ([]domain.Track, error)
	GetTrack(ctx context.Context, id string) (*domain.Track, error)
	// GetTracks returns the tracks in the order of ids. Unknown ids are skipped.
	GetTracks(ctx context.Context, ids []string) ([]domain.Track, error)
	GetTrackByFileURL(ctx context.Context, fileURL string) (*domain.Track, error)

	CreatePlaylist(ctx context.Context, ownerID, name string) (*domain.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]domain.Playlist, error)
	AddTrackToPlaylist(ctx context.Context, userID, playlistID, fileURL string) error
	RemoveTrackFromPlaylist(ctx context.Context, userID, playlistID, trackID string) error
	DeletePlaylist(ctx context.Context, userID, playlistID string) error
}

type contentService struct {
	tracks    repository.TrackRepository
	playlists repository.PlaylistRepository
	store     storage.TrackStore
}

func NewContentService(tracks repository.TrackRepository, playlists repository.PlaylistRepository, store storage.TrackStore) ContentService {
	if store == nil {
		store = storage.Unavailable()
	}
	return &contentService{
		tracks:    tracks,
		playlists: playlists,
		store:     store,
	}
}

func (s *contentService) CreateTrack(ctx context.Context, t *domain.Track) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Artist = strings.TrimSpace(t.Artist)
	if t.Title == "" {
		return domain.NewValidation("title", "is required")
	}
	if t.Artist == "" {
		return domain.NewValidation("artist", "is required")
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now().UTC()

	if err := s.tracks.Create(ctx, t); err != nil {
		return err
	}

	logger.Info(logger.EventContent, "Track created", logger.Fields(
		"track_id", t.ID,
		"title", t.Title,
	))
	return nil
}

func (s *contentService) UploadTrack(ctx context.Context, t *domain.Track, filename string, file io.Reader, size int64) error {
	locator, err := s.store.Put(ctx, uuid.New().String()+"_"+filename, file, size)
	if err != nil {
		logger.Error(logger.EventStorage, "Track upload failed", logger.Fields(
			"filename", filename,
			"error", err.Error(),
		))
		return err
	}

	t.FileURL = locator
	if err := s.CreateTrack(ctx, t); err != nil {
		if delErr := s.store.Delete(ctx, locator); delErr != nil {
			logger.Warn(logger.EventStorage, "Failed to remove orphaned track file", logger.Fields(
				"locator", locator,
				"error", delErr.Error(),
			))
		}
		return err
	}
	return nil
}

func (s *contentService) ListTracks(ctx context.Context) ([]domain.Track, error) {
	return s.tracks.List(ctx)
}

func (s *contentService) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.tracks.List(ctx)
	}
	return s.tracks.Search(ctx, query)
}

func (s *contentService) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	return s.tracks.FindByID(ctx, id)
}

func (s *contentService) GetTracks(ctx context.Context, ids []string) ([]domain.Track, error) {
	found, err := s.tracks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Track, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	ordered := make([]domain.Track, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (s *contentService) GetTrackByFileURL(ctx context.Context, fileURL string) (*domain.Track, error) {
	return s.tracks.FindByFileURL(ctx, fileURL)
}

func (s *contentService) CreatePlaylist(ctx context.Context, ownerID, name string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("name", "is required")
	}

	p := &domain.Playlist{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		TrackIDs:  []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.playlists.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(logger.EventContent, "Playlist created", logger.Fields(
		"playlist_id", p.ID,
		"owner_id", ownerID,
	))
	return p, nil
}

func (s *contentService) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	return s.playlists.FindByID(ctx, id)
}

func (s *contentService) ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	return s.playlists.FindByOwner(ctx, ownerID)
}

func (s *contentService) ownedPlaylist(ctx context.Context, userID, playlistID, action string) (*domain.Playlist, error) {
	p, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(userID) {
		logger.Security(logger.EventAccessDenied, "Playlist modification by non-owner", logger.Fields(
			"user_id", userID,
			"playlist_id", playlistID,
			"action", action,
		))
		return nil, domain.NewForbidden(action)
	}
	return p, nil
}

func (s *contentService) AddTrackToPlaylist(ctx context.Context, userID, playlistID, fileURL string) error {
	p, err := s.ownedPlaylist(ctx, userID, playlistID, "add track to playlist")
	if err != nil {
		return err
	}

	track, err := s.tracks.FindByFileURL(ctx, fileURL)
	if err != nil {
		return err
	}
	if p.HasTrack(track.ID) {
		return nil
	}
	return s.playlists.AddTrack(ctx, p.ID, track.ID)
}

func (s *contentService) RemoveTrackFromPlaylist(ctx context.Context, userID, playlistID, trackID string) error {
	p, err := s.ownedPlaylist(ctx, userID, playlistID, "remove track from playlist")
	if err != nil {
		return err
	}
	return s.playlists.RemoveTrack(ctx, p.ID, trackID)
}

func (s *contentService) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	if _, err := s.ownedPlaylist(ctx, userID, playlistID, "delete playlist"); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, playlistID); err != nil {
		return err
	}

	logger.Info(logger.EventContent, "Playlist deleted", logger.Fields(
		"playlist_id", playlistID,
		"user_id", userID,
	))
	return nil
}
