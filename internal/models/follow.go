package models

import "time"

type Follow struct {
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowStatus string

const (
	Followed   FollowStatus = "followed"
	Unfollowed FollowStatus = "unfollowed"
)

// FollowResult is returned by the follow toggle.
type FollowResult struct {
	Status FollowStatus `json:"status"`
}
