package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Follow is one directed edge of the social graph. Followers of a user are
// found through the reverse index on FollowedID, not through a field on User.
type Follow struct {
	FollowerID string    `bson:"follower_id" json:"follower_id"`
	FollowedID string    `bson:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
