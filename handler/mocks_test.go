package handler

import (
	"context"
	"io"

	"github.com/annazecevic/music-service/domain"
	"github.com/stretchr/testify/mock"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUsers) UpdateRole(ctx context.Context, actorID, id string, role domain.Role) error {
	return m.Called(ctx, actorID, id, role).Error(0)
}

func (m *mockUsers) EnsureUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, bool, error) {
	args := m.Called(ctx, username, password, role)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Bool(1), args.Error(2)
}

type mockSubscriptions struct{ mock.Mock }

func (m *mockSubscriptions) Subscribe(ctx context.Context, username string, days int) (*domain.UserSubscription, error) {
	args := m.Called(ctx, username, days)
	s, _ := args.Get(0).(*domain.UserSubscription)
	return s, args.Error(1)
}

func (m *mockSubscriptions) SubscribeToPlan(ctx context.Context, username, planID string) (*domain.UserSubscription, error) {
	args := m.Called(ctx, username, planID)
	s, _ := args.Get(0).(*domain.UserSubscription)
	return s, args.Error(1)
}

func (m *mockSubscriptions) GetActive(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*domain.UserSubscription)
	return s, args.Error(1)
}

func (m *mockSubscriptions) ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]domain.SubscriptionPlan)
	return plans, args.Error(1)
}

func (m *mockSubscriptions) SeedPlans(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSubscriptions) DeactivateExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockSocial struct{ mock.Mock }

func (m *mockSocial) Follow(ctx context.Context, followerID, targetID string) error {
	return m.Called(ctx, followerID, targetID).Error(0)
}

func (m *mockSocial) Unfollow(ctx context.Context, followerID, targetID string) error {
	return m.Called(ctx, followerID, targetID).Error(0)
}

func (m *mockSocial) GetFollowedPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]domain.Playlist)
	return p, args.Error(1)
}

func (m *mockSocial) Following(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockSocial) Followers(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) AddReview(ctx context.Context, trackID, userID string, rating *int, comment *string) (*domain.TrackReview, error) {
	args := m.Called(ctx, trackID, userID, rating, comment)
	r, _ := args.Get(0).(*domain.TrackReview)
	return r, args.Error(1)
}

func (m *mockReviews) GetReviews(ctx context.Context, trackID string) ([]domain.TrackReview, error) {
	args := m.Called(ctx, trackID)
	r, _ := args.Get(0).([]domain.TrackReview)
	return r, args.Error(1)
}

func (m *mockReviews) GetAverageRating(ctx context.Context, trackID string) (*float64, error) {
	args := m.Called(ctx, trackID)
	avg, _ := args.Get(0).(*float64)
	return avg, args.Error(1)
}

type mockFeed struct{ mock.Mock }

func (m *mockFeed) ComposeHome(ctx context.Context, userID *string, searchQuery *string) (*domain.FeedView, error) {
	args := m.Called(ctx, userID, searchQuery)
	v, _ := args.Get(0).(*domain.FeedView)
	return v, args.Error(1)
}

func (m *mockFeed) ComposePlaylist(ctx context.Context, userID, playlistID string) (*domain.FeedView, error) {
	args := m.Called(ctx, userID, playlistID)
	v, _ := args.Get(0).(*domain.FeedView)
	return v, args.Error(1)
}

type mockContent struct{ mock.Mock }

func (m *mockContent) CreateTrack(ctx context.Context, t *domain.Track) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockContent) UploadTrack(ctx context.Context, t *domain.Track, filename string, file io.Reader, size int64) error {
	return m.Called(ctx, t, filename, file, size).Error(0)
}

func (m *mockContent) ListTracks(ctx context.Context) ([]domain.Track, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]domain.Track)
	return t, args.Error(1)
}

func (m *mockContent) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	args := m.Called(ctx, query)
	t, _ := args.Get(0).([]domain.Track)
	return t, args.Error(1)
}

func (m *mockContent) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Track)
	return t, args.Error(1)
}

func (m *mockContent) GetTracks(ctx context.Context, ids []string) ([]domain.Track, error) {
	args := m.Called(ctx, ids)
	tracks, _ := args.Get(0).([]domain.Track)
	return tracks, args.Error(1)
}

func (m *mockContent) GetTrackByFileURL(ctx context.Context, fileURL string) (*domain.Track, error) {
	args := m.Called(ctx, fileURL)
	t, _ := args.Get(0).(*domain.Track)
	return t, args.Error(1)
}

func (m *mockContent) CreatePlaylist(ctx context.Context, ownerID, name string) (*domain.Playlist, error) {
	args := m.Called(ctx, ownerID, name)
	p, _ := args.Get(0).(*domain.Playlist)
	return p, args.Error(1)
}

func (m *mockContent) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Playlist)
	return p, args.Error(1)
}

func (m *mockContent) ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	args := m.Called(ctx, ownerID)
	p, _ := args.Get(0).([]domain.Playlist)
	return p, args.Error(1)
}

func (m *mockContent) AddTrackToPlaylist(ctx context.Context, userID, playlistID, fileURL string) error {
	return m.Called(ctx, userID, playlistID, fileURL).Error(0)
}

func (m *mockContent) RemoveTrackFromPlaylist(ctx context.Context, userID, playlistID, trackID string) error {
	return m.Called(ctx, userID, playlistID, trackID).Error(0)
}

func (m *mockContent) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	return m.Called(ctx, userID, playlistID).Error(0)
}
