package service

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/metrics"
	"github.com/annazecevic/music-service/repository"
	"github.com/google/uuid"
)

type ReviewService interface {
	// AddReview stores a review; rating and comment are both optional. A user
	// may review the same track more than once.
	AddReview(ctx context.Context, trackID, userID string, rating *int, comment *string) (*domain.TrackReview, error)
	GetReviews(ctx context.Context, trackID string) ([]domain.TrackReview, error)
	// GetAverageRating returns nil when the track has no ratings.
	GetAverageRating(ctx context.Context, trackID string) (*float64, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	tracks  repository.TrackRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewReviewService(reviews repository.ReviewRepository, tracks repository.TrackRepository, users repository.UserRepository) ReviewService {
	return &reviewService{
		reviews: reviews,
		tracks:  tracks,
		users:   users,
		now:     time.Now,
	}
}

func (s *reviewService) AddReview(ctx context.Context, trackID, userID string, rating *int, comment *string) (*domain.TrackReview, error) {
	if _, err := s.tracks.FindByID(ctx, trackID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if rating != nil && (*rating < domain.MinRating || *rating > domain.MaxRating) {
		logger.Warn(logger.EventValidationFailure, "Rejected review rating", logger.Fields(
			"track_id", trackID,
			"rating", *rating,
		))
		return nil, domain.NewValidation("rating", "must be between 1 and 5")
	}
	if comment != nil && utf8.RuneCountInString(*comment) > domain.MaxCommentLength {
		return nil, domain.NewValidation("comment", "must be at most 1000 characters")
	}

	review := &domain.TrackReview{
		ID:        uuid.New().String(),
		TrackID:   trackID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	metrics.RecordReview()
	logger.Info(logger.EventReview, "Review created", logger.Fields(
		"track_id", trackID,
		"user_id", userID,
		"has_rating", rating != nil,
	))
	return review, nil
}

func (s *reviewService) GetReviews(ctx context.Context, trackID string) ([]domain.TrackReview, error) {
	reviews, err := s.reviews.FindByTrackID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.TrackReview{}
	}
	return reviews, nil
}

func (s *reviewService) GetAverageRating(ctx context.Context, trackID string) (*float64, error) {
	stats, err := s.reviews.RatingStats(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if stats.Count == 0 {
		return nil, nil
	}
	avg := roundTenth(stats.Average)
	return &avg, nil
}

// roundTenth rounds half away from zero at the first decimal.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
