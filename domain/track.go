package domain

import "time"

type Track struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Artist    string    `bson:"artist" json:"artist"`
	Genres    string    `bson:"genres" json:"genres"`
	FileURL   string    `bson:"file_url,omitempty" json:"file_url,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
