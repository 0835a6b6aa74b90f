package domain

import "time"

type Playlist struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	TrackIDs  []string  `bson:"track_ids" json:"track_ids"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (p *Playlist) OwnedBy(userID string) bool {
	return p.OwnerID == userID
}

func (p *Playlist) HasTrack(trackID string) bool {
	for _, id := range p.TrackIDs {
		if id == trackID {
			return true
		}
	}
	return false
}
