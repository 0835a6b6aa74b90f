package service

import (
	"context"
	"strings"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/metrics"
)

type FeedService interface {
	// ComposeHome builds the home view. A nil userID yields the public
	// catalog with social and subscription fields left empty.
	ComposeHome(ctx context.Context, userID *string, searchQuery *string) (*domain.FeedView, error)
	// ComposePlaylist is the home view narrowed to one playlist's tracks.
	ComposePlaylist(ctx context.Context, userID, playlistID string) (*domain.FeedView, error)
}

type feedService struct {
	users   UserService
	content ContentService
	social  SocialService
	reviews ReviewService
	subs    SubscriptionService
	now     func() time.Time
}

func NewFeedService(users UserService, content ContentService, social SocialService, reviews ReviewService, subs SubscriptionService) FeedService {
	return &feedService{
		users:   users,
		content: content,
		social:  social,
		reviews: reviews,
		subs:    subs,
		now:     time.Now,
	}
}

func (s *feedService) ComposeHome(ctx context.Context, userID *string, searchQuery *string) (*domain.FeedView, error) {
	start := time.Now()
	defer func() { metrics.ObserveFeed(time.Since(start)) }()

	view := emptyView()

	var tracks []domain.Track
	var err error
	if q := trimmed(searchQuery); q != "" {
		view.SearchQuery = q
		tracks, err = s.content.SearchTracks(ctx, q)
	} else {
		tracks, err = s.content.ListTracks(ctx)
	}
	if err != nil {
		return nil, err
	}
	view.Tracks = tracks

	if err := s.fillReviews(ctx, view); err != nil {
		return nil, err
	}

	if userID == nil {
		return view, nil
	}
	if err := s.fillUser(ctx, view, *userID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *feedService) ComposePlaylist(ctx context.Context, userID, playlistID string) (*domain.FeedView, error) {
	start := time.Now()
	defer func() { metrics.ObserveFeed(time.Since(start)) }()

	playlist, err := s.content.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	view := emptyView()
	view.ActivePlaylistID = playlist.ID
	view.PlaylistName = playlist.Name

	// tracks removed after they were added drop out here
	if view.Tracks, err = s.content.GetTracks(ctx, playlist.TrackIDs); err != nil {
		return nil, err
	}

	if err := s.fillReviews(ctx, view); err != nil {
		return nil, err
	}
	if err := s.fillUser(ctx, view, userID); err != nil {
		return nil, err
	}
	return view, nil
}

func emptyView() *domain.FeedView {
	return &domain.FeedView{
		Tracks:            []domain.Track{},
		Playlists:         []domain.Playlist{},
		FollowedPlaylists: []domain.Playlist{},
		FollowingIDs:      []string{},
		Users:             []domain.User{},
		ReviewsByTrack:    map[string][]domain.TrackReview{},
		AvgRatings:        map[string]float64{},
	}
}

func trimmed(q *string) string {
	if q == nil {
		return ""
	}
	return strings.TrimSpace(*q)
}

// fillReviews defaults missing reviews to an empty list and a missing
// average to zero.
func (s *feedService) fillReviews(ctx context.Context, view *domain.FeedView) error {
	for _, t := range view.Tracks {
		reviews, err := s.reviews.GetReviews(ctx, t.ID)
		if err != nil {
			return err
		}
		view.ReviewsByTrack[t.ID] = reviews

		avg, err := s.reviews.GetAverageRating(ctx, t.ID)
		if err != nil {
			return err
		}
		if avg != nil {
			view.AvgRatings[t.ID] = *avg
		} else {
			view.AvgRatings[t.ID] = 0
		}
	}
	return nil
}

func (s *feedService) fillUser(ctx context.Context, view *domain.FeedView, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	id := user.ID
	view.CurrentUserID = &id

	if view.Playlists, err = s.content.ListPlaylistsByOwner(ctx, id); err != nil {
		return err
	}
	if view.FollowingIDs, err = s.social.Following(ctx, id); err != nil {
		return err
	}
	if view.FollowedPlaylists, err = s.social.GetFollowedPlaylists(ctx, id); err != nil {
		return err
	}
	if view.Users, err = s.users.List(ctx); err != nil {
		return err
	}

	sub, err := s.subs.GetActive(ctx, id)
	if err != nil {
		return err
	}
	if sub != nil {
		now := s.now()
		view.HasActiveSubscription = sub.ValidAt(now)
		view.DaysLeft = sub.DaysLeft(now)
	}
	return nil
}
