package service

import (
	"context"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/locker"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/metrics"
	"github.com/annazecevic/music-service/repository"
)

type SocialService interface {
	// Follow is idempotent; following yourself is a silent no-op.
	Follow(ctx context.Context, followerID, targetID string) error
	// Unfollow succeeds when no edge exists.
	Unfollow(ctx context.Context, followerID, targetID string) error
	GetFollowedPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error)
	Following(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]string, error)
}

type socialService struct {
	users     repository.UserRepository
	follows   repository.FollowRepository
	playlists repository.PlaylistRepository
	locks     locker.Locker
}

func NewSocialService(users repository.UserRepository, follows repository.FollowRepository, playlists repository.PlaylistRepository, locks locker.Locker) SocialService {
	return &socialService{
		users:     users,
		follows:   follows,
		playlists: playlists,
		locks:     locks,
	}
}

func followLockKey(followerID string) string {
	return "follow:" + followerID
}

func (s *socialService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return nil
	}

	unlock, err := s.locks.Lock(ctx, followLockKey(followerID))
	if err != nil {
		metrics.RecordFollow("follow", "error")
		return err
	}
	defer unlock()

	if err := s.requireUsers(ctx, followerID, targetID); err != nil {
		metrics.RecordFollow("follow", "not_found")
		return err
	}

	exists, err := s.follows.Exists(ctx, followerID, targetID)
	if err != nil {
		metrics.RecordFollow("follow", "error")
		return err
	}
	if exists {
		metrics.RecordFollow("follow", "noop")
		return nil
	}

	if err := s.follows.Add(ctx, followerID, targetID); err != nil {
		metrics.RecordFollow("follow", "error")
		return err
	}

	metrics.RecordFollow("follow", "ok")
	logger.Info(logger.EventSocialGraph, "User followed", logger.Fields(
		"follower_id", followerID,
		"followed_id", targetID,
	))
	return nil
}

func (s *socialService) Unfollow(ctx context.Context, followerID, targetID string) error {
	unlock, err := s.locks.Lock(ctx, followLockKey(followerID))
	if err != nil {
		metrics.RecordFollow("unfollow", "error")
		return err
	}
	defer unlock()

	if err := s.requireUsers(ctx, followerID, targetID); err != nil {
		metrics.RecordFollow("unfollow", "not_found")
		return err
	}

	exists, err := s.follows.Exists(ctx, followerID, targetID)
	if err != nil {
		metrics.RecordFollow("unfollow", "error")
		return err
	}
	if !exists {
		metrics.RecordFollow("unfollow", "noop")
		return nil
	}

	if err := s.follows.Remove(ctx, followerID, targetID); err != nil {
		metrics.RecordFollow("unfollow", "error")
		return err
	}

	metrics.RecordFollow("unfollow", "ok")
	logger.Info(logger.EventSocialGraph, "User unfollowed", logger.Fields(
		"follower_id", followerID,
		"followed_id", targetID,
	))
	return nil
}

func (s *socialService) requireUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *socialService) GetFollowedPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	following, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.playlistsOf(ctx, following)
}

func (s *socialService) playlistsOf(ctx context.Context, ownerIDs []string) ([]domain.Playlist, error) {
	if len(ownerIDs) == 0 {
		return []domain.Playlist{}, nil
	}
	return s.playlists.FindByOwnerIDs(ctx, ownerIDs)
}

func (s *socialService) Following(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.FollowingIDs(ctx, userID)
}

func (s *socialService) Followers(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.FollowerIDs(ctx, userID)
}
