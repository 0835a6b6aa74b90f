package domain

import (
	"math"
	"time"
)

const PaymentIDPrefix = "Mock_"

// UserSubscription is a time-limited subscription. IsActive marks the record
// that renewals extend; whether it is still valid is decided by EndDate.
type UserSubscription struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	StartDate  time.Time `bson:"start_date" json:"start_date"`
	EndDate    time.Time `bson:"end_date" json:"end_date"`
	IsActive   bool      `bson:"is_active" json:"is_active"`
	PaymentIDs []string  `bson:"payment_ids" json:"payment_ids"`
	Version    int64     `bson:"version" json:"-"`
}

func (s *UserSubscription) ValidAt(now time.Time) bool {
	return s.EndDate.After(now)
}

// DaysLeft rounds the remaining time up to whole days and never goes below zero.
func (s *UserSubscription) DaysLeft(now time.Time) int {
	remaining := s.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

type SubscriptionPlan struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name" json:"name"`
	PriceCents     int64  `bson:"price_cents" json:"price_cents"`
	DurationInDays int    `bson:"duration_in_days" json:"duration_in_days"`
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
