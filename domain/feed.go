package domain

// FeedView is the display aggregate for the home page. Missing reviews and
// ratings are filled with an empty list and zero.
type FeedView struct {
	CurrentUserID         *string                  `json:"current_user_id"`
	SearchQuery           string                   `json:"search_query,omitempty"`
	Tracks                []Track                  `json:"tracks"`
	Playlists             []Playlist               `json:"playlists"`
	FollowedPlaylists     []Playlist               `json:"followed_playlists"`
	FollowingIDs          []string                 `json:"following_ids"`
	Users                 []User                   `json:"users"`
	ReviewsByTrack        map[string][]TrackReview `json:"reviews_by_track"`
	AvgRatings            map[string]float64       `json:"avg_ratings"`
	HasActiveSubscription bool                     `json:"has_active_subscription"`
	DaysLeft              int                      `json:"days_left"`
	ActivePlaylistID      string                   `json:"active_playlist_id,omitempty"`
	PlaylistName          string                   `json:"playlist_name,omitempty"`
}
