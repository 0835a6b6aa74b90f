package domain

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

type TrackReview struct {
	ID        string    `bson:"id" json:"id"`
	TrackID   string    `bson:"track_id" json:"track_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    *int      `bson:"rating,omitempty" json:"rating,omitempty"`
	Comment   *string   `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
