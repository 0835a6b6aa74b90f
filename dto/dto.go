package dto

import (
	"time"

	"github.com/annazecevic/music-service/domain"
)

// SubscribeRequest takes either a number of days or a plan id.
type SubscribeRequest struct {
	Days   int    `json:"days"`
	PlanID string `json:"plan_id"`
}

type SubscriptionResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	IsActive   bool      `json:"is_active"`
	Valid      bool      `json:"valid"`
	DaysLeft   int       `json:"days_left"`
	PaymentIDs []string  `json:"payment_ids"`
}

func ToSubscriptionResponse(s *domain.UserSubscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		IsActive:   s.IsActive,
		Valid:      s.ValidAt(now),
		DaysLeft:   s.DaysLeft(now),
		PaymentIDs: s.PaymentIDs,
	}
}

type CreateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type AverageRatingResponse struct {
	TrackID string   `json:"track_id"`
	Average *float64 `json:"average"`
}

type FollowListResponse struct {
	UserID string   `json:"user_id"`
	IDs    []string `json:"ids"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type CreateTrackRequest struct {
	Title  string `form:"title" json:"title" binding:"required"`
	Artist string `form:"artist" json:"artist" binding:"required"`
	Genres string `form:"genres" json:"genres"`
}

type CreatePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddTrackToPlaylistRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
